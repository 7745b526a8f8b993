package email

import (
	"html/template"

	"github.com/Domenick1991/hotelbooking/internal/kafka"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]mailTemplate{
	kafka.EventBookingConfirmed: {
		subject: "Booking #%d confirmed",
		body: template.Must(template.New("confirmed").Parse(`<p>Dear {{.CustomerName}},</p>
<p>Your booking #{{.BookingID}} is confirmed: room {{.RoomNumber}} ({{.RoomType}}) from {{.CheckIn}} to {{.CheckOut}}.</p>
<p>Total {{.TotalAmount.StringFixed 2}}, paid {{.PaidAmount.StringFixed 2}}, due {{.DueAmount.StringFixed 2}}.</p>
<p>Please show the attached code at the front desk.</p>`)),
	},
	kafka.EventBookingCheckedOut: {
		subject: "Thank you for staying with us (booking #%d)",
		body: template.Must(template.New("checked_out").Parse(`<p>Dear {{.CustomerName}},</p>
<p>You checked out of room {{.RoomNumber}} on {{.CheckOut}}. Total billed: {{.TotalAmount.StringFixed 2}}.</p>`)),
	},
	kafka.EventServiceAdded: {
		subject: "Service added to booking #%d",
		body: template.Must(template.New("service_added").Parse(`<p>Dear {{.CustomerName}},</p>
{{with .Service}}<p>{{.Quantity}} x {{.Name}} at {{.UnitPrice.StringFixed 2}} = {{.TotalPrice.StringFixed 2}} was added to your booking.</p>{{end}}
<p>Amount due: {{.DueAmount.StringFixed 2}}.</p>`)),
	},
	kafka.EventRoomChanged: {
		subject: "Room changed for booking #%d",
		body: template.Must(template.New("room_changed").Parse(`<p>Dear {{.CustomerName}},</p>
<p>Your booking now uses room {{.RoomNumber}} ({{.RoomType}}). New total: {{.TotalAmount.StringFixed 2}}, due {{.DueAmount.StringFixed 2}}.</p>`)),
	},
	kafka.EventCheckoutDue: {
		subject: "Checkout today for booking #%d",
		body: template.Must(template.New("checkout_due").Parse(`<p>Dear {{.CustomerName}},</p>
<p>Your checkout from room {{.RoomNumber}} is due today ({{.CheckOut}}). Amount due: {{.DueAmount.StringFixed 2}}.</p>`)),
	},
}
