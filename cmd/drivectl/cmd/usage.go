package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/templui/drivebox/internal/repository"
	"github.com/templui/drivebox/internal/service"
)

func UsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage <email>",
		Short: "Show a user's storage usage against the quota",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := openDB()
			if err != nil {
				return err
			}
			defer database.Close()

			email := strings.ToLower(strings.TrimSpace(args[0]))
			user, err := repository.NewUserRepository(database).ByEmail(cmd.Context(), email)
			if errors.Is(err, repository.ErrUserNotFound) {
				return fmt.Errorf("no user registered as %s", email)
			}
			if err != nil {
				return err
			}

			usage, err := service.NewQuotaService(database, cfg.QuotaBytes).Usage(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			percent := float64(usage.Used) / float64(usage.Total) * 100
			cmd.Printf("%s: %s of %s used (%.1f%%), %s free\n",
				user.Email,
				humanize.IBytes(uint64(usage.Used)),
				humanize.IBytes(uint64(usage.Total)),
				percent,
				humanize.IBytes(uint64(usage.Available())),
			)
			return nil
		},
	}
}
