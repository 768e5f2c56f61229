package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Elking123mi/vanelux-web/internal/core/domain"
	"github.com/Elking123mi/vanelux-web/internal/core/ports"
	"github.com/Elking123mi/vanelux-web/internal/core/service"
)

// BookingHandler handles HTTP requests for the caller's bookings.
type BookingHandler struct {
	service ports.BookingService
}

func NewBookingHandler(service ports.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

// Create handles POST /api/v1/vlx/bookings.
//
// @Summary      Create a booking
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Booking details"
// @Success      200   {object}  bookingEnvelope
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /api/v1/vlx/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return domain.Errorf(domain.ErrInvalidBooking, "%s", err.Error())
	}

	draft, err := req.toDraft()
	if err != nil {
		return err
	}

	booking, err := h.service.Create(c.Request().Context(), claims.AccountID, draft)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, bookingEnvelope{Booking: toBookingResponse(*booking)})
}

type listBookingsQuery struct {
	Status   string `query:"status"`
	Page     int    `query:"page"`
	PageSize int    `query:"page_size"`
}

// List handles GET /api/v1/vlx/bookings.
//
// @Summary      List the caller's bookings, newest first
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        status     query     string  false  "Filter by status"
// @Param        page       query     int     false  "Page number"  default(1)
// @Param        page_size  query     int     false  "Page size, at most 100"  default(50)
// @Success      200        {object}  bookingListResponse
// @Failure      400        {object}  errorResponse
// @Failure      401        {object}  errorResponse
// @Failure      503        {object}  errorResponse
// @Router       /api/v1/vlx/bookings [get]
func (h *BookingHandler) List(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	q := listBookingsQuery{Page: 1, PageSize: service.DefaultPageSize}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return domain.Errorf(domain.ErrInvalidPagination, "page and page_size must be integers")
	}

	bookings, err := h.service.List(c.Request().Context(), ports.ListBookingsInput{
		OwnerID:  claims.AccountID,
		Status:   domain.BookingStatus(q.Status),
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toBookingList(bookings))
}
