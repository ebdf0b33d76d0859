package quoting

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/paylink-hq/paylink/pkg/models"
)

// USDCDecimals is the number of decimals of the USDC token
const USDCDecimals = 6

var usdcUnit = big.NewInt(1_000_000)

// ParseUSD converts a decimal USD face value ("25.00") into USDC
// smallest units. The face value must be positive and carry at most
// six decimal places.
func ParseUSD(value string) (*big.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("amount is required")
	}
	if strings.HasPrefix(value, "-") {
		return nil, fmt.Errorf("amount must be positive: %s", value)
	}

	whole := value
	frac := ""
	if i := strings.IndexByte(value, '.'); i >= 0 {
		whole, frac = value[:i], value[i+1:]
	}
	if len(frac) > USDCDecimals {
		return nil, fmt.Errorf("amount has more than %d decimal places: %s", USDCDecimals, value)
	}
	// Right-pad the fraction to six digits
	frac += strings.Repeat("0", USDCDecimals-len(frac))

	if whole == "" {
		whole = "0"
	}
	units, ok := new(big.Int).SetString(whole+frac, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", value)
	}
	if units.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive: %s", value)
	}
	return units, nil
}

// FormatUSDC renders USDC smallest units as a decimal string with two
// places minimum ("25.00", "0.50", "12.345678").
func FormatUSDC(units *big.Int) string {
	if units == nil {
		return "0.00"
	}
	whole := new(big.Int).Quo(units, usdcUnit)
	frac := new(big.Int).Mod(units, usdcUnit)

	fracStr := fmt.Sprintf("%06d", frac)
	// Trim trailing zeros but keep at least two places
	for len(fracStr) > 2 && fracStr[len(fracStr)-1] == '0' {
		fracStr = fracStr[:len(fracStr)-1]
	}
	return whole.String() + "." + fracStr
}

// ApplySlippage returns the slippage-adjusted maximum source amount
// for the given tolerance in basis points.
func ApplySlippage(amount *big.Int, toleranceBps int) *big.Int {
	if amount == nil {
		return nil
	}
	adjusted := new(big.Int).Mul(amount, big.NewInt(int64(10_000+toleranceBps)))
	return adjusted.Quo(adjusted, big.NewInt(10_000))
}

// ValidateShares checks the client-side precondition that all shares
// of a split sum to exactly 100. The storage layer does not enforce
// this, so it must be rejected before submission.
func ValidateShares(participants []models.Participant) error {
	if len(participants) == 0 {
		return fmt.Errorf("split requires at least one participant")
	}
	sum := 0
	for _, p := range participants {
		if p.Share <= 0 {
			return fmt.Errorf("participant %s has non-positive share %d", p.Address, p.Share)
		}
		sum += p.Share
	}
	if sum != 100 {
		return fmt.Errorf("participant shares must sum to 100, got %d", sum)
	}
	return nil
}

// ParticipantAmount returns a participant's portion of the total in
// USDC smallest units.
func ParticipantAmount(total *big.Int, share int) *big.Int {
	portion := new(big.Int).Mul(total, big.NewInt(int64(share)))
	return portion.Quo(portion, big.NewInt(100))
}
