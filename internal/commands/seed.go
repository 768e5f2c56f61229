package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
)

// seedFile is the YAML layout read by the seed command.
type seedFile struct {
	Accounts []seedAccount `yaml:"accounts"`
}

type seedAccount struct {
	Username    string   `yaml:"username"`
	Email       string   `yaml:"email"`
	Password    string   `yaml:"password"`
	FullName    string   `yaml:"full_name"`
	Roles       []string `yaml:"roles"`
	AllowedApps []string `yaml:"allowed_apps"`
	Status      string   `yaml:"status"`
}

func newSeedCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert every account listed in a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := requireFlag(cmd, "file")
			if err != nil {
				return err
			}
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			seed, err := decodeSeed(f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				svc := rt.accountService(b)
				for i, a := range seed.Accounts {
					apps := a.AllowedApps
					if apps == nil {
						apps = []string{domain.DefaultApp}
					}
					acc, err := svc.RegisterAccount(cmd.Context(), ports.RegisterAccountInput{
						Username:    a.Username,
						Email:       a.Email,
						Password:    a.Password,
						FullName:    a.FullName,
						Roles:       a.Roles,
						AllowedApps: apps,
						Status:      domain.AccountStatus(a.Status),
					})
					if err != nil {
						return fmt.Errorf("account %d (%s): %w", i+1, a.Email, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "upserted %d %s <%s>\n", acc.ID, acc.Username, acc.Email)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d accounts seeded\n", len(seed.Accounts))
				return nil
			})
		},
	}
	cmd.Flags().String("file", "", "YAML file with an accounts list (required)")
	return cmd
}

func decodeSeed(r io.Reader) (*seedFile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var seed seedFile
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty seed file")
		}
		return nil, err
	}
	if len(seed.Accounts) == 0 {
		return nil, errors.New("seed file lists no accounts")
	}
	return &seed, nil
}
