package dbconn

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const keyringService = "docstudio"

// SavePassword stores a password in the OS credential manager for the given profile.
func SavePassword(profileID string, password string) error {
	return keyring.Set(keyringService, profileID, password)
}

// LoadPassword retrieves a stored password from the OS credential manager. A profile
// without a stored password yields "".
func LoadPassword(profileID string) (string, error) {
	pw, err := keyring.Get(keyringService, profileID)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return pw, err
}

// DeletePassword removes a stored password from the OS credential manager.
func DeletePassword(profileID string) error {
	err := keyring.Delete(keyringService, profileID)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}
