package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/premiumbank/pbank/internal/format"
	"github.com/premiumbank/pbank/internal/models"
)

// AccountLabel renders an account for selection lists
func AccountLabel(acct models.Account) string {
	return fmt.Sprintf("%s %s (%s)", acct.DisplayType(), maskNumber(acct.AccountNumber), format.Money(acct.Balance))
}

func maskNumber(number string) string {
	if len(number) <= 4 {
		return number
	}
	return "****" + number[len(number)-4:]
}

// FindAccount matches ref against account ids, account numbers and account types.
// A type only matches when exactly one account has it.
func FindAccount(accounts []models.Account, ref string) (models.Account, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return models.Account{}, false
	}
	for _, acct := range accounts {
		if acct.ID == ref || acct.AccountNumber == ref {
			return acct, true
		}
	}

	var found []models.Account
	for _, acct := range accounts {
		if strings.EqualFold(acct.Type, ref) || strings.EqualFold(acct.DisplayType(), ref) {
			found = append(found, acct)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return models.Account{}, false
}

// SelectAccount resolves ref when given, otherwise asks the user to pick one.
// An empty id means nothing was selected.
func (a *App) SelectAccount(ctx context.Context, label, ref string, accounts []models.Account) (string, error) {
	if ref != "" {
		if acct, ok := FindAccount(accounts, ref); ok {
			return acct.ID, nil
		}
		return "", fmt.Errorf("no account matches %q", ref)
	}
	if len(accounts) == 0 {
		return "", nil
	}

	labels := make([]string, len(accounts))
	for i, acct := range accounts {
		labels[i] = AccountLabel(acct)
	}
	idx, err := a.Prompt.Choose(ctx, label, labels)
	if err != nil {
		return "", err
	}
	return accounts[idx].ID, nil
}
