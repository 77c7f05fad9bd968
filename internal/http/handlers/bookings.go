package handlers

import (
	"net/http"
	"strings"

	"travelbooking/internal/domain"
	"travelbooking/internal/domain/models"
	"travelbooking/internal/http/middleware"
	"travelbooking/internal/services"
	"travelbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	Bookings services.BookingService
	Tickets  services.TicketService
}

type createBookingRequest struct {
	TravelServiceID  int64                    `json:"travelServiceId"`
	ServiceID        int64                    `json:"serviceId"`
	TravelDate       string                   `json:"travelDate"`
	Passengers       int                      `json:"passengers"`
	PassengerDetails []models.PassengerDetail `json:"passengerDetails"`
	ContactEmail     string                   `json:"contactEmail"`
	ContactPhone     string                   `json:"contactPhone"`
	PaymentMethod    string                   `json:"paymentMethod"`
	SpecialRequests  string                   `json:"specialRequests"`
}

type updateBookingStatusRequest struct {
	Status        *models.BookingStatus `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
}

func (h BookingHandler) bookings(c *gin.Context) services.BookingService {
	s := h.Bookings
	s.RequestID = middleware.GetRequestID(c)
	return s
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	serviceID := req.TravelServiceID
	if serviceID == 0 {
		serviceID = req.ServiceID
	}
	travelDate, err := utils.ParseTravelDate(req.TravelDate)
	if err != nil {
		RespondDomainError(c, domain.ValidationError{Field: "travelDate", Msg: "must be YYYY-MM-DD or RFC3339"})
		return
	}

	b, err := h.bookings(c).Create(c.Request.Context(), middleware.GetRequestContext(c), models.BookingInput{
		ServiceID:        domain.ID(serviceID),
		TravelDate:       travelDate,
		Passengers:       req.Passengers,
		PassengerDetails: req.PassengerDetails,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
		PaymentMethod:    models.PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		SpecialRequests:  req.SpecialRequests,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusCreated, b, "Booking confirmed!")
}

func (h BookingHandler) ListMine(c *gin.Context) {
	status := models.BookingStatus(strings.TrimSpace(c.Query("status")))
	list, page, err := h.bookings(c).ListMine(c.Request.Context(), middleware.GetRequestContext(c), status, pageQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, list, page)
}

func (h BookingHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookings(c).Get(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, b, "")
}

func (h BookingHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.bookings(c).Cancel(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, b, "Booking cancelled successfully. Refund initiated.")
}

func (h BookingHandler) Ticket(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	ts := h.Tickets
	ts.RequestID = middleware.GetRequestID(c)
	pdf, filename, err := ts.Generate(c.Request.Context(), middleware.GetRequestContext(c), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h BookingHandler) ListAll(c *gin.Context) {
	status := models.BookingStatus(strings.TrimSpace(c.Query("status")))
	list, page, err := h.bookings(c).ListAll(c.Request.Context(), middleware.GetRequestContext(c), status, pageQuery(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondPage(c, list, page)
}

func (h BookingHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req updateBookingStatusRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	b, err := h.bookings(c).UpdateStatus(c.Request.Context(), middleware.GetRequestContext(c), id, models.BookingStatusUpdate{
		Status:        req.Status,
		PaymentStatus: req.PaymentStatus,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondData(c, http.StatusOK, b, "")
}
