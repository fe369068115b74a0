package cmd

import (
	"fmt"
	"strconv"

	"lottoledger/domain/entities"
)

func parseUint64(name, value string) (uint64, error) {
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, value, entities.ErrInvalidAmount)
	}
	return parsed, nil
}

func parseIdentity(value string) (entities.Identity, error) {
	id := entities.Identity(value)
	if err := id.Validate(); err != nil {
		return "", fmt.Errorf("invalid identity %q: %w", value, err)
	}
	return id, nil
}
