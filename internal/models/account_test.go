package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccount_Validate(t *testing.T) {
	validUserID := uuid.New()

	tests := []struct {
		name    string
		account Account
		wantErr error
	}{
		{
			name: "valid savings account",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB12345678",
				AccountType:   AccountTypeSavings,
				Balance:       decimal.NewFromInt(1000),
				Status:        AccountStatusActive,
			},
		},
		{
			name: "valid frozen current account",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB99999999",
				AccountType:   AccountTypeCurrent,
				Balance:       decimal.NewFromInt(5000),
				Status:        AccountStatusFrozen,
			},
		},
		{
			name: "lowercase type is rejected",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB12345678",
				AccountType:   "savings",
				Status:        AccountStatusActive,
			},
			wantErr: ErrInvalidAccountType,
		},
		{
			name: "number without prefix",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "1234567890",
				AccountType:   AccountTypeSavings,
				Status:        AccountStatusActive,
			},
			wantErr: ErrInvalidAccountNumber,
		},
		{
			name: "number with leading zero digit",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB01234567",
				AccountType:   AccountTypeSavings,
				Status:        AccountStatusActive,
			},
			wantErr: ErrInvalidAccountNumber,
		},
		{
			name: "unknown status",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB12345678",
				AccountType:   AccountTypeSavings,
				Status:        "closed",
			},
			wantErr: ErrInvalidAccountStatus,
		},
		{
			name: "negative balance",
			account: Account{
				UserID:        validUserID,
				AccountNumber: "KB12345678",
				AccountType:   AccountTypeSavings,
				Balance:       decimal.NewFromInt(-1),
				Status:        AccountStatusActive,
			},
			wantErr: ErrInvalidBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("missing user", func(t *testing.T) {
		err := (&Account{AccountNumber: "KB12345678", AccountType: AccountTypeSavings, Status: AccountStatusActive}).Validate()
		assert.EqualError(t, err, "user ID is required")
	})
}

func TestMinimumBalanceFor(t *testing.T) {
	assert.True(t, MinimumBalanceFor(AccountTypeSavings).Equal(decimal.NewFromInt(1000)))
	assert.True(t, MinimumBalanceFor(AccountTypeCurrent).Equal(decimal.NewFromInt(5000)))
	assert.True(t, MinimumBalanceFor("Checking").IsZero())
}

func TestHasAmountScale(t *testing.T) {
	assert.True(t, HasAmountScale(decimal.NewFromInt(500)))
	assert.True(t, HasAmountScale(decimal.RequireFromString("0.01")))
	assert.True(t, HasAmountScale(decimal.RequireFromString("12.500")))
	assert.False(t, HasAmountScale(decimal.RequireFromString("0.001")))
	assert.False(t, HasAmountScale(decimal.RequireFromString("99.999")))
}

func TestAccount_Debit(t *testing.T) {
	account := &Account{AccountType: AccountTypeSavings, Balance: decimal.NewFromInt(1500), Status: AccountStatusActive}

	assert.ErrorIs(t, account.Debit(decimal.NewFromInt(501)), ErrBelowMinimumBalance)
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1500)))

	require.NoError(t, account.Debit(decimal.NewFromInt(500)))
	assert.True(t, account.Balance.Equal(decimal.NewFromInt(1000)), "debit down to the floor is allowed")

	assert.ErrorIs(t, account.Debit(decimal.Zero), ErrInvalidLedgerAmount)
	assert.ErrorIs(t, account.Debit(decimal.RequireFromString("0.001")), ErrInvalidLedgerAmount)

	account.Status = AccountStatusFrozen
	assert.ErrorIs(t, account.Debit(decimal.NewFromInt(1)), ErrAccountFrozen)
}

func TestAccount_Credit(t *testing.T) {
	account := &Account{AccountType: AccountTypeCurrent, Balance: decimal.NewFromInt(5000), Status: AccountStatusActive}

	require.NoError(t, account.Credit(decimal.RequireFromString("0.01")))
	assert.Equal(t, "5000.01", account.Balance.StringFixed(2))
	assert.ErrorIs(t, account.Credit(decimal.NewFromInt(-5)), ErrInvalidLedgerAmount)
	assert.ErrorIs(t, account.Credit(decimal.RequireFromString("1.005")), ErrInvalidLedgerAmount)

	account.Status = AccountStatusFrozen
	assert.ErrorIs(t, account.Credit(decimal.NewFromInt(1)), ErrAccountFrozen)
}

func TestGenerateAccountNumber(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		number, err := GenerateAccountNumber()
		require.NoError(t, err)
		assert.Len(t, number, 10)
		assert.True(t, strings.HasPrefix(number, AccountNumberPrefix))
		assert.True(t, IsValidAccountNumber(number), number)
		seen[number] = struct{}{}
	}
	assert.Greater(t, len(seen), 190)
}
