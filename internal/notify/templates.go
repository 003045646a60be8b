package notify

import (
	"fmt"
	"strings"

	"github.com/sanavida/clinic-booking-platform/internal/events"
)

func confirmationEmail(name string, ev events.AppointmentConfirmedV1) (subject, body string) {
	subject = "Tu cita ha sido confirmada"

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", name)
	fmt.Fprintf(&b, "Tu cita del %s a las %s ha sido confirmada.\n\n", ev.Date, ev.StartTime)
	if ev.Modality == "online" {
		b.WriteString("La consulta será en línea.")
		if ev.MeetingLink != "" {
			fmt.Fprintf(&b, " Puedes unirte con este enlace: %s", ev.MeetingLink)
		}
		b.WriteString("\n\n")
	} else {
		b.WriteString("Te esperamos en la clínica.\n\n")
	}
	b.WriteString("Saludos,\nClínica SanaVida")
	return subject, b.String()
}

func rejectionEmail(name string, ev events.AppointmentRejectedV1) (subject, body string) {
	subject = "Tu cita no pudo ser confirmada"

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\n", name)
	fmt.Fprintf(&b, "Lamentamos informarte que tu cita del %s a las %s fue rechazada.\n\n", ev.Date, ev.StartTime)
	fmt.Fprintf(&b, "Motivo: %s\n\n", ev.Reason)
	b.WriteString("Puedes agendar una nueva cita en otro horario disponible.\n\n")
	b.WriteString("Saludos,\nClínica SanaVida")
	return subject, b.String()
}
