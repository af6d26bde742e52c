package mail

import (
	"context"
	"fmt"
	"strings"

	"workcafe/model"
)

// CafeRequestNotifier e-mails visitor requests for new or changed cafes.
type CafeRequestNotifier struct {
	Sender Sender
}

func NewCafeRequestNotifier(sender Sender) *CafeRequestNotifier {
	return &CafeRequestNotifier{Sender: sender}
}

// SendCafeRequest formats every submitted field and sends it to "to".
// Transport failures are returned to the caller.
func (n *CafeRequestNotifier) SendCafeRequest(ctx context.Context, to string, req model.CafeRequest) error {
	if n.Sender == nil || to == "" {
		return &TransportError{Op: "configure", Err: ErrNotConfigured}
	}
	return n.Sender.Send(ctx, to, "New cafe request: "+req.Name, FormatCafeRequest(req))
}

func FormatCafeRequest(req model.CafeRequest) string {
	var b strings.Builder
	line := func(label string, value interface{}) {
		fmt.Fprintf(&b, "%s: %v\n", label, value)
	}

	line("Cafe Name", req.Name)
	line("Short Description", req.ShortDescription)
	line("Map URL", req.MapURL)
	line("Image URL", req.ImgURL)
	line("Location", req.Location)
	line("Has Sockets", yesNo(req.HasSockets))
	line("Has Toilet", yesNo(req.HasToilet))
	line("Has Wifi", yesNo(req.HasWifi))
	line("Can Take Calls", yesNo(req.CanTakeCalls))
	line("Seats", req.Seats)
	line("Coffee Price", fmt.Sprintf("%.2f", req.CoffeePrice))
	if req.ContactEmail != "" {
		line("Contact Email", req.ContactEmail)
	}
	b.WriteString("\nExtra Info:\n")
	if strings.TrimSpace(req.ExtraInfo) == "" {
		b.WriteString("-\n")
	} else {
		b.WriteString(strings.TrimSpace(req.ExtraInfo) + "\n")
	}
	return b.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
