package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/bilive-keeper/internal/domain"
)

// parseAccountID validates a platform uid. Account IDs come from the
// platform, so unlike config-local identifiers there is no auto assignment.
func parseAccountID(raw string) (domain.AccountID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("account uid is required")
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || n <= 0 {
		return "", fmt.Errorf("account uid must be a positive number, got %q", raw)
	}

	return domain.AccountID(trimmed), nil
}
