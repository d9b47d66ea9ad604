package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/systmms/keysvc/internal/config"
	kserrors "github.com/systmms/keysvc/internal/errors"
	"github.com/systmms/keysvc/internal/secure"
)

func NewCreateCommand(cfg *config.Config) *cobra.Command {
	var (
		secret     string
		noStore    bool
		showKey    bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new key on the key service",
		Long: `Register a new symmetric key for the given secret.

The server answers with the key id, the key material and a high-entropy
long secret. The long secret is cached in the OS keyring (unless
--no-store is given) so later 'keysvc get --from-keyring' calls work
without the original secret.

The key material itself is only printed with --show-key.

Examples:
  # Create a key and remember its long secret
  keysvc create --secret "s3cr3t"

  # Create a key and print the full model as JSON
  keysvc create --secret "s3cr3t" --json --show-key`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				return kserrors.UserError{
					Message:    "Secret is required",
					Suggestion: "Use --secret <value> to supply the secret protecting the new key",
				}
			}

			if err := cfg.Load(); err != nil {
				return err
			}

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			model, err := client.CreateKey(cmd.Context(), secret)
			if err != nil {
				return kserrors.KeyServiceError("create", err)
			}

			// Keep the material in guarded memory; the decoded model is
			// not needed beyond this scope.
			material := secure.Hold([]byte(model.Key))
			defer material.Discard()
			model.Key = ""

			if !noStore && model.LongSecret != "" {
				if cache := longSecretCache(cfg); cache != nil {
					if err := cache.Store(model.KeyID, model.LongSecret); err != nil {
						cfg.Logger.Warn("could not cache long secret: %v", err)
					} else {
						cfg.Logger.Info("long secret cached in OS keyring (service %q)", cfg.Settings.KeyringService)
					}
				}
			}

			return printModel(cmd.OutOrStdout(), model.KeyID, material, showKey, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&secret, "secret", "", "Secret the new key is bound to")
	cmd.Flags().BoolVar(&noStore, "no-store", false, "Do not cache the long secret in the OS keyring")
	cmd.Flags().BoolVar(&showKey, "show-key", false, "Print the key material")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// printModel writes the result of a create or get operation. Key material
// only leaves guarded memory when the user asked for it.
func printModel(out io.Writer, keyID string, material *secure.Material, showKey, jsonOutput bool) error {
	if !jsonOutput {
		fmt.Fprintf(out, "%s\n", keyID)
		if showKey {
			return material.WithBytes(func(key []byte) error {
				_, err := fmt.Fprintf(out, "%s\n", key)
				return err
			})
		}
		return nil
	}

	payload := map[string]string{"keyid": keyID}
	if showKey {
		if err := material.WithBytes(func(key []byte) error {
			payload["key"] = string(key)
			return nil
		}); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	err := enc.Encode(payload)
	// Drop the plaintext copy from the payload map as soon as it is out.
	delete(payload, "key")
	return err
}
