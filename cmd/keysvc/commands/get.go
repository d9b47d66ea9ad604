package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/systmms/keysvc/internal/config"
	kserrors "github.com/systmms/keysvc/internal/errors"
	"github.com/systmms/keysvc/internal/keyring"
	"github.com/systmms/keysvc/internal/secure"
	"github.com/systmms/keysvc/pkg/keyservice"
)

func NewGetCommand(cfg *config.Config) *cobra.Command {
	var (
		keyID       string
		secret      string
		longSecret  string
		fromKeyring bool
		showKey     bool
		jsonOutput  bool
	)

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Retrieve key material for a key id",
		Long: `Fetch the symmetric key material for a key id.

Exactly one credential source must be given: the original secret
(--secret), the server-issued long secret (--long-secret), or the long
secret cached in the OS keyring at creation time (--from-keyring).

Examples:
  # Retrieve with the original secret
  keysvc get --key-id key-0001 --secret "s3cr3t" --show-key

  # Retrieve with the cached long secret
  keysvc get --key-id key-0001 --from-keyring --show-key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if keyID == "" {
				return kserrors.UserError{
					Message:    "Key id is required",
					Suggestion: "Use --key-id <id> to name the key to retrieve",
				}
			}
			if err := exactlyOneCredential(secret, longSecret, fromKeyring); err != nil {
				return err
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			var model *keyservice.KeyModel
			switch {
			case secret != "":
				model, err = client.GetKey(cmd.Context(), secret, keyID)
			case longSecret != "":
				model, err = client.GetKeyViaLongSecret(cmd.Context(), longSecret, keyID)
			default:
				cache := longSecretCache(cfg)
				if cache == nil {
					return kserrors.ConfigError{
						Field:      "keyring_service",
						Message:    "keyring cache is disabled",
						Suggestion: "Set keyring_service in the config file, or pass --secret / --long-secret",
					}
				}
				var cached string
				cached, err = cache.Lookup(keyID)
				if errors.Is(err, keyring.ErrNotFound) {
					return kserrors.UserError{
						Message:    "No cached long secret for key id " + keyID,
						Suggestion: "Pass --secret with the original secret, or recreate the key with 'keysvc create'",
					}
				}
				if err != nil {
					return err
				}
				model, err = client.GetKeyViaLongSecret(cmd.Context(), cached, keyID)
			}
			if err != nil {
				return kserrors.KeyServiceError("get", err)
			}

			material := secure.Hold([]byte(model.Key))
			defer material.Discard()
			model.Key = ""

			return printModel(cmd.OutOrStdout(), model.KeyID, material, showKey, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&keyID, "key-id", "", "Key id to retrieve")
	cmd.Flags().StringVar(&secret, "secret", "", "Original secret the key is bound to")
	cmd.Flags().StringVar(&longSecret, "long-secret", "", "Server-issued long secret")
	cmd.Flags().BoolVar(&fromKeyring, "from-keyring", false, "Use the long secret cached in the OS keyring")
	cmd.Flags().BoolVar(&showKey, "show-key", false, "Print the key material")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// exactlyOneCredential enforces that a single credential source was
// chosen on the command line.
func exactlyOneCredential(secret, longSecret string, fromKeyring bool) error {
	count := 0
	if secret != "" {
		count++
	}
	if longSecret != "" {
		count++
	}
	if fromKeyring {
		count++
	}

	switch count {
	case 1:
		return nil
	case 0:
		return kserrors.UserError{
			Message:    "A credential is required",
			Suggestion: "Use exactly one of --secret, --long-secret or --from-keyring",
		}
	default:
		return kserrors.UserError{
			Message:    "Conflicting credentials",
			Suggestion: "Use exactly one of --secret, --long-secret or --from-keyring",
		}
	}
}
