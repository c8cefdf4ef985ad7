package services

import (
	"edupay-backend/internal/events"
	"edupay-backend/internal/models"
)

// HubPublisher adapts the WebSocket hub to the service-layer publisher
// interfaces.
type HubPublisher struct {
	Hub *events.Hub
}

func NewHubPublisher(hub *events.Hub) *HubPublisher {
	return &HubPublisher{Hub: hub}
}

func (p *HubPublisher) PublishPaymentAccepted(session string, student *models.Student, payment *models.PaymentRecord) {
	p.Hub.Publish(events.Event{
		Type:    events.TypePaymentAccepted,
		Session: session,
		Payload: map[string]interface{}{
			"student_id":     student.ID,
			"student_name":   student.Name,
			"receipt_number": payment.ReceiptNumber,
			"amount":         payment.Amount,
			"status":         student.Status,
		},
	})
}

func (p *HubPublisher) PublishStudentUpdated(session string, student *models.Student) {
	p.Hub.Publish(events.Event{
		Type:    events.TypeStudentUpdated,
		Session: session,
		Payload: map[string]interface{}{
			"student_id": student.ID,
			"status":     student.Status,
		},
	})
}

func (p *HubPublisher) PublishStructureUpdated(session, className string) {
	p.Hub.Publish(events.Event{
		Type:    events.TypeStructureUpdated,
		Session: session,
		Payload: map[string]interface{}{
			"class_name": className,
		},
	})
}
