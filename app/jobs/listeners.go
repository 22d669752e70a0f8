package jobs

import (
	"fmt"

	"github.com/workhive/workhive/app/models"
	"github.com/workhive/workhive/pkg/event"
	"github.com/workhive/workhive/pkg/logger"
	"github.com/workhive/workhive/pkg/queue"
)

// RegisterListeners binds domain events to outbox dispatches. The
// primary write has already committed when these run; a full queue is
// logged and dropped rather than surfaced to the request.
func RegisterListeners() {
	event.Listen(event.ContactSubmitted, onContactSubmitted)
	event.Listen(event.OrderPaid, onOrderPaid)
	event.Listen(event.PrebookingPaid, onPrebookingPaid)
	event.Listen(event.OrderRefunded, onOrderRefunded)
}

func onContactSubmitted(payload interface{}) {
	c, ok := payload.(models.ContactSubmission)
	if !ok {
		return
	}

	dispatch(&AdminNotifyJob{
		Title:   "New contact enquiry",
		Message: fmt.Sprintf("%s <%s>: %s", c.Name, c.Email, c.Subject),
		Type:    models.NotifyContact,
	})
	NotifyAdminsByMail(
		"New contact enquiry: "+c.Subject,
		fmt.Sprintf("<p><b>%s</b> &lt;%s&gt; wrote:</p><p>%s</p>", c.Name, c.Email, c.Message),
	)
}

func onOrderPaid(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok {
		return
	}

	dispatch(&AdminNotifyJob{
		Title:   "Order paid",
		Message: fmt.Sprintf("Order #%d paid: %.2f %s", order.ID, order.TotalAmount, order.Currency),
		Type:    models.NotifyOrderPaid,
	})
	NotifyAdminsByMail(
		fmt.Sprintf("Order #%d paid", order.ID),
		fmt.Sprintf("<p>Order #%d was paid: %.2f %s (payment %s).</p>",
			order.ID, order.TotalAmount, order.Currency, order.PaymentID),
	)
}

func onPrebookingPaid(payload interface{}) {
	p, ok := payload.(models.Prebooking)
	if !ok {
		return
	}

	dispatch(&AdminNotifyJob{
		Title:   "Prebooking completed",
		Message: fmt.Sprintf("Prebooking #%d for %q completed: %.2f %s", p.ID, p.ProductTitle, p.Amount, p.Currency),
		Type:    models.NotifyOrderPaid,
	})
}

func onOrderRefunded(payload interface{}) {
	order, ok := payload.(models.Order)
	if !ok {
		return
	}

	dispatch(&AdminNotifyJob{
		Title:   "Order refunded",
		Message: fmt.Sprintf("Order #%d refunded: %.2f %s", order.ID, order.TotalAmount, order.Currency),
		Type:    models.NotifyRefund,
	})
}

func dispatch(job queue.Job) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("jobs: dispatch failed", "job", job.Name(), "error", err)
	}
}
