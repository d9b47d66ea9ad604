package commands

import (
	"github.com/spf13/cobra"

	"github.com/systmms/keysvc/internal/config"
	kserrors "github.com/systmms/keysvc/internal/errors"
)

func NewForgetCommand(cfg *config.Config) *cobra.Command {
	var keyID string

	cmd := &cobra.Command{
		Use:   "forget",
		Short: "Remove a cached long secret from the OS keyring",
		Long: `Delete the long secret cached for a key id.

This only touches the local OS keyring; the key itself stays on the
server and can still be retrieved with the original secret.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyID == "" {
				return kserrors.UserError{
					Message:    "Key id is required",
					Suggestion: "Use --key-id <id> to name the cached entry to remove",
				}
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			cache := longSecretCache(cfg)
			if cache == nil {
				return kserrors.ConfigError{
					Field:      "keyring_service",
					Message:    "keyring cache is disabled",
					Suggestion: "Set keyring_service in the config file",
				}
			}

			if err := cache.Delete(keyID); err != nil {
				return err
			}
			cfg.Logger.Info("removed cached long secret for %s", keyID)
			return nil
		},
	}

	cmd.Flags().StringVar(&keyID, "key-id", "", "Key id whose cached long secret to remove")

	return cmd
}
