package handler

import (
	"time"

	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/application/service"
	"github.com/VamshiKrishnaR-18/ERP-CRM-PROJECT/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// NotificationHandler exposes the notification sweeps for manual runs.
// The scheduler runs the same sweeps on its own cadence.
type NotificationHandler struct {
	notificationService *service.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// TriggerOverdue handles manually running the overdue-invoice sweep. Admin-only.
func (h *NotificationHandler) TriggerOverdue(c *gin.Context) {
	queued, err := h.notificationService.NotifyOverdueInvoices(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Overdue notices queued", gin.H{"queued": queued})
}

// TriggerReminders handles manually running the payment-reminder sweep. Admin-only.
func (h *NotificationHandler) TriggerReminders(c *gin.Context) {
	queued, err := h.notificationService.NotifyPaymentReminders(c.Request.Context(), time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment reminders queued", gin.H{"queued": queued})
}
