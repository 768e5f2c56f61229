package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	"github.com/Elking123mi/vanelux-web/internal/core/service"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/db/sqlite"
	"github.com/Elking123mi/vanelux-web/internal/infrastructure/store"
	"github.com/Elking123mi/vanelux-web/internal/report"
)

func newBookingsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Inspect stored bookings",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newBookingsListCmd(rt))
	return cmd
}

func newBookingsListCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings, newest first",
		Long:  "List one owner's bookings, newest first. Without --owner the embedded store lists every owner's bookings with the same filters.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, _ := cmd.Flags().GetInt64("owner")
			status, _ := cmd.Flags().GetString("status")
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			return rt.withStore(cmd.Context(), func(b *store.Backend) error {
				var (
					out []domain.Booking
					err error
				)
				switch {
				case owner != 0:
					out, err = rt.bookingService(b).List(cmd.Context(), ports.ListBookingsInput{
						OwnerID:  owner,
						Status:   domain.BookingStatus(status),
						Page:     page,
						PageSize: pageSize,
					})
				case b.SQL != nil:
					out, err = listAllBookings(cmd.Context(), b, domain.BookingStatus(status), page, pageSize)
				default:
					err = errors.New("--owner is required for remote backends")
				}
				if err != nil {
					return err
				}
				return report.New(cmd.OutOrStdout()).Bookings(out)
			})
		},
	}

	cmd.Flags().Int64("owner", 0, "Owner account id")
	cmd.Flags().String("status", "", "Only bookings with this status")
	cmd.Flags().Int("page", 1, "Page number")
	cmd.Flags().Int("page-size", service.DefaultPageSize, "Bookings per page, at most 100")
	return cmd
}

func listAllBookings(ctx context.Context, b *store.Backend, status domain.BookingStatus, page, pageSize int) ([]domain.Booking, error) {
	limit, offset, err := service.Window(page, pageSize)
	if err != nil {
		return nil, err
	}
	if status != "" && !status.Valid() {
		return []domain.Booking{}, nil
	}
	return sqlite.NewBookingRepository(b.SQL).ListAll(ctx, domain.BookingFilter{
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
}
