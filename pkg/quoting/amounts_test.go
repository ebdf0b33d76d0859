package quoting

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paylink-hq/paylink/pkg/models"
)

func TestParseUSD(t *testing.T) {
	tests := []struct {
		input   string
		want    int64
		wantErr bool
	}{
		{input: "25.00", want: 25_000000},
		{input: "25", want: 25_000000},
		{input: "0.5", want: 500000},
		{input: "0.000001", want: 1},
		{input: "100.123456", want: 100_123456},
		{input: " 10.00 ", want: 10_000000},
		{input: "", wantErr: true},
		{input: "0", wantErr: true},
		{input: "0.00", wantErr: true},
		{input: "-5", wantErr: true},
		{input: "1.0000001", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			units, err := ParseUSD(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, units.Int64())
		})
	}
}

func TestFormatUSDC(t *testing.T) {
	assert.Equal(t, "25.00", FormatUSDC(big.NewInt(25_000000)))
	assert.Equal(t, "0.50", FormatUSDC(big.NewInt(500000)))
	assert.Equal(t, "12.345678", FormatUSDC(big.NewInt(12_345678)))
	assert.Equal(t, "0.00", FormatUSDC(nil))
	assert.Equal(t, "0.000001", FormatUSDC(big.NewInt(1)))
}

func TestParseFormatRoundTrip(t *testing.T) {
	units, err := ParseUSD("42.10")
	require.NoError(t, err)
	assert.Equal(t, "42.10", FormatUSDC(units))
}

func TestApplySlippage(t *testing.T) {
	// 50 bps on 1 USDC adds half a cent
	assert.Equal(t, int64(1_005000), ApplySlippage(big.NewInt(1_000000), 50).Int64())
	// Zero tolerance is the identity
	assert.Equal(t, int64(1_000000), ApplySlippage(big.NewInt(1_000000), 0).Int64())
	assert.Nil(t, ApplySlippage(nil, 50))
}

func TestValidateShares(t *testing.T) {
	addrA := "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	addrB := "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	t.Run("valid split", func(t *testing.T) {
		err := ValidateShares([]models.Participant{
			{Address: addrA, Share: 60},
			{Address: addrB, Share: 40},
		})
		assert.NoError(t, err)
	})

	t.Run("shares summing to 90 are rejected", func(t *testing.T) {
		err := ValidateShares([]models.Participant{
			{Address: addrA, Share: 60},
			{Address: addrB, Share: 30},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sum to 100")
	})

	t.Run("overshooting shares are rejected", func(t *testing.T) {
		err := ValidateShares([]models.Participant{
			{Address: addrA, Share: 60},
			{Address: addrB, Share: 50},
		})
		assert.Error(t, err)
	})

	t.Run("non-positive share", func(t *testing.T) {
		err := ValidateShares([]models.Participant{
			{Address: addrA, Share: 100},
			{Address: addrB, Share: 0},
		})
		assert.Error(t, err)
	})

	t.Run("empty split", func(t *testing.T) {
		assert.Error(t, ValidateShares(nil))
	})
}

func TestParticipantAmount(t *testing.T) {
	total := big.NewInt(100_000000) // 100 USDC
	assert.Equal(t, int64(60_000000), ParticipantAmount(total, 60).Int64())
	assert.Equal(t, int64(40_000000), ParticipantAmount(total, 40).Int64())
}
