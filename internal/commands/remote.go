package commands

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/report"
	"github.com/Elking123mi/vanelux-web/pkg/client"
)

const defaultAPIURL = "http://localhost:8080"

func newRemoteCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Talk to a running VaneLux API",
		Long:  "Talk to a running VaneLux API. Failed requests are printed with the status, error code and a likely cause.",
		Args:  cobra.NoArgs,
	}

	url := os.Getenv("VANELUX_API_URL")
	if url == "" {
		url = defaultAPIURL
	}
	cmd.PersistentFlags().String("url", url, "API base URL (default: $VANELUX_API_URL)")
	cmd.PersistentFlags().String("token", os.Getenv("VANELUX_TOKEN"), "Bearer token for authenticated calls (default: $VANELUX_TOKEN)")
	cmd.PersistentFlags().Duration("timeout", 15*time.Second, "Per-request timeout")

	cmd.AddCommand(newRemoteLoginCmd())
	cmd.AddCommand(newRemoteBookingsCmd())
	cmd.AddCommand(newRemoteCheckCmd())
	return cmd
}

func remoteClient(cmd *cobra.Command) (*client.Client, error) {
	url, _ := cmd.Flags().GetString("url")
	token, _ := cmd.Flags().GetString("token")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	opts := []client.Option{client.WithHTTPClient(&http.Client{Timeout: timeout})}
	if token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(url, opts...)
}

// explain prints API failures in full and marks them as already reported.
func explain(cmd *cobra.Command, err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	if perr := report.New(cmd.OutOrStdout()).APIError(apiErr); perr != nil {
		return err
	}
	return printedError{err: err}
}

func newRemoteLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the issued token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			username, err := requireFlag(cmd, "username")
			if err != nil {
				return err
			}
			password, err := requireFlag(cmd, "password")
			if err != nil {
				return err
			}
			app, _ := cmd.Flags().GetString("app")

			c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			res, err := c.Login(cmd.Context(), username, password, app)
			if err != nil {
				return explain(cmd, err)
			}
			return report.New(cmd.OutOrStdout()).Login(res)
		},
	}
	addLoginFlags(cmd)
	return cmd
}

func addLoginFlags(cmd *cobra.Command) {
	cmd.Flags().String("username", "", "Username or email")
	cmd.Flags().String("password", "", "Password")
	cmd.Flags().String("app", "", "Application to log in to (server default when empty)")
}

func newRemoteBookingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "List or create bookings on a running API",
		Args:  cobra.NoArgs,
	}
	cmd.AddCommand(newRemoteBookingsListCmd())
	cmd.AddCommand(newRemoteBookingsCreateCmd())
	return cmd
}

func newRemoteBookingsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the token owner's bookings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			page, _ := cmd.Flags().GetInt("page")
			pageSize, _ := cmd.Flags().GetInt("page-size")

			c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			out, err := c.ListBookings(cmd.Context(), client.ListOptions{
				Status:   status,
				Page:     page,
				PageSize: pageSize,
			})
			if err != nil {
				return explain(cmd, err)
			}
			return report.New(cmd.OutOrStdout()).RemoteBookings(out)
		},
	}
	cmd.Flags().String("status", "", "Only bookings with this status")
	cmd.Flags().Int("page", 0, "Page number (server default when 0)")
	cmd.Flags().Int("page-size", 0, "Bookings per page (server default when 0)")
	return cmd
}

func newRemoteBookingsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a booking for the token owner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pickup, err := requireFlag(cmd, "pickup")
			if err != nil {
				return err
			}
			destination, err := requireFlag(cmd, "destination")
			if err != nil {
				return err
			}
			rawTime, err := requireFlag(cmd, "pickup-time")
			if err != nil {
				return err
			}
			pickupTime, err := domain.ParseTimestamp(rawTime)
			if err != nil {
				return fmt.Errorf("--pickup-time: %w", err)
			}
			price, _ := cmd.Flags().GetFloat64("price")
			vehicle, _ := cmd.Flags().GetString("vehicle")
			serviceType, _ := cmd.Flags().GetString("service-type")

			req := client.BookingRequest{
				PickupAddress:      pickup,
				DestinationAddress: destination,
				PickupTime:         pickupTime,
				VehicleName:        vehicle,
				Price:              price,
				ServiceType:        serviceType,
			}
			if cmd.Flags().Changed("passengers") {
				n, _ := cmd.Flags().GetInt("passengers")
				req.Passengers = &n
			}

			c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			b, err := c.CreateBooking(cmd.Context(), req)
			if err != nil {
				return explain(cmd, err)
			}
			return report.New(cmd.OutOrStdout()).RemoteBookings([]client.Booking{*b})
		},
	}
	cmd.Flags().String("pickup", "", "Pickup address (required)")
	cmd.Flags().String("destination", "", "Destination address (required)")
	cmd.Flags().String("pickup-time", "", "Pickup time, ISO-8601; UTC when no offset is given (required)")
	cmd.Flags().Int("passengers", 1, "Passenger count")
	cmd.Flags().Float64("price", 0, "Quoted price")
	cmd.Flags().String("vehicle", "", "Vehicle name")
	cmd.Flags().String("service-type", "", "Service type (server default when empty)")
	return cmd
}

func newRemoteCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Probe health, readiness and, with credentials, login and booking listing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := remoteClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var checks []report.Check

			if h, err := c.Health(ctx); err != nil {
				checks = append(checks, report.Check{Name: "health", Detail: err.Error()})
			} else {
				checks = append(checks, report.Check{Name: "health", OK: true, Detail: h.Status})
			}

			if h, err := c.Ready(ctx); err != nil {
				detail := err.Error()
				if h != nil {
					for name, dep := range h.Dependencies {
						if dep.Error != "" {
							detail = fmt.Sprintf("%s: %s", name, dep.Error)
						}
					}
				}
				checks = append(checks, report.Check{Name: "ready", Detail: detail})
			} else {
				checks = append(checks, report.Check{Name: "ready", OK: true, Detail: h.Status})
			}

			username, _ := cmd.Flags().GetString("username")
			if username != "" {
				password, _ := cmd.Flags().GetString("password")
				app, _ := cmd.Flags().GetString("app")
				if res, err := c.Login(ctx, username, password, app); err != nil {
					checks = append(checks, report.Check{Name: "login", Detail: diagnose(err)})
				} else {
					checks = append(checks, report.Check{Name: "login", OK: true, Detail: "token " + report.ShortToken(res.AccessToken)})
				}
			}

			if c.Token() != "" {
				if out, err := c.ListBookings(ctx, client.ListOptions{}); err != nil {
					checks = append(checks, report.Check{Name: "bookings", Detail: diagnose(err)})
				} else {
					checks = append(checks, report.Check{Name: "bookings", OK: true, Detail: fmt.Sprintf("%d listed", len(out))})
				}
			}

			if err := report.New(cmd.OutOrStdout()).Checks(checks); err != nil {
				return err
			}
			for _, ch := range checks {
				if !ch.OK {
					return printedError{err: fmt.Errorf("check %s failed", ch.Name)}
				}
			}
			return nil
		},
	}
	addLoginFlags(cmd)
	return cmd
}

func diagnose(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%d %s: %s", apiErr.Status, apiErr.Code, apiErr.Diagnosis())
	}
	return err.Error()
}
