package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/keysvc/internal/config"
	kserrors "github.com/systmms/keysvc/internal/errors"
	"github.com/systmms/keysvc/internal/validation"
	"github.com/systmms/keysvc/pkg/keyservice"
)

func NewDoctorCommand(cfg *config.Config) *cobra.Command {
	var (
		keyID  string
		secret string
	)

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration and key service connectivity",
		Long: `Run diagnostics against the configured realm:

  1. Validate the configuration (realm base URL, version, timeout).
  2. Show the resolved endpoint URLs.
  3. Probe the service with a key lookup that is expected to answer
     404; any classified server answer proves connectivity.
  4. With --key-id and --secret, fetch that key and check the response
     body against the documented key model contract.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check 1: configuration
			if err := cfg.Load(); err != nil {
				cfg.Logger.Error("configuration: %v", err)
				return kserrors.UserError{
					Message:    "Configuration is not usable",
					Suggestion: "Fix the reported problem and run 'keysvc doctor' again",
					Err:        err,
				}
			}
			cfg.Logger.Info("configuration valid (realm %s, version %s)",
				cfg.Settings.RealmBaseURL, cfg.Settings.Version)

			client, err := newClient(cfg)
			if err != nil {
				return err
			}

			// Check 2: endpoint resolution
			cfg.Logger.Info("key endpoint:       %s", client.EndpointURL(keyservice.EndpointKey))
			cfg.Logger.Info("createkey endpoint: %s", client.EndpointURL(keyservice.EndpointCreateKey))

			// Check 3: connectivity probe. The probe key id does not
			// exist; a key-not-found answer is the healthy outcome.
			_, probeErr := client.GetKey(cmd.Context(), "doctor-probe", "doctor-probe")
			switch {
			case probeErr == nil:
				cfg.Logger.Warn("probe key unexpectedly exists on the server")
			case keyservice.IsNoConnection(probeErr):
				cfg.Logger.Error("key service unreachable: %v", probeErr)
				return kserrors.KeyServiceError("doctor", probeErr)
			case keyservice.IsNotFound(probeErr), keyservice.IsUnauthorized(probeErr):
				cfg.Logger.Info("key service reachable")
			default:
				cfg.Logger.Warn("key service reachable but answered unexpectedly: %v", probeErr)
			}

			// Check 4: optional contract check against a real key
			if keyID == "" {
				cfg.Logger.Info("skipping contract check (pass --key-id and --secret to enable)")
				return nil
			}
			if secret == "" {
				return kserrors.UserError{
					Message:    "Secret is required for the contract check",
					Suggestion: "Pass --secret together with --key-id",
				}
			}

			model, err := client.GetKey(cmd.Context(), secret, keyID)
			if err != nil {
				return kserrors.KeyServiceError("doctor", err)
			}
			if err := validation.ValidateKeyModel(model.Raw); err != nil {
				cfg.Logger.Error("contract check failed: %v", err)
				return fmt.Errorf("key model contract check failed: %w", err)
			}
			cfg.Logger.Info("key model matches the documented contract")
			return nil
		},
	}

	cmd.Flags().StringVar(&keyID, "key-id", "", "Existing key id for the contract check")
	cmd.Flags().StringVar(&secret, "secret", "", "Secret for the contract check key")

	return cmd
}
