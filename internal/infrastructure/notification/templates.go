package notification

import (
	"fmt"
	"strings"

	"github.com/litovianka/bike-service/internal/domain/notifications"
	"github.com/litovianka/bike-service/internal/domain/orders"
)

const (
	inviteSubject  = "Pozvánka do BlackBike portálu"
	welcomeSubject = "Prihlasovacie údaje do Bike Service"

	inviteIntroCreated  = "Vytvorili sme ti prístup do BlackBike portálu."
	inviteIntroExisting = "Posielame ti prístup do BlackBike portálu."
)

const inviteBodyTemplate = `Ahoj %s

%s

Nastavenie hesla
%s

Prihlásenie nájdeš tu
%s

Link na nastavenie hesla je jednorazový a časovo obmedzený.
`

const welcomeBodyTemplate = `Ahoj %s

Vytvorili sme ti prístup do Bike Service.

Nastavenie hesla
%s

Prihlásenie
Meno: %s

Prihlásenie nájdeš tu
%s
`

const doneBodyTemplate = `Ahoj %s,

Servisná objednávka #%s je hotová.

Čo sa urobilo:
%s

Checklist:
%s

Cena: %s €
`

const protocolBodyTemplate = `Ahoj %s

V prílohe posielame servis protokol k zákazke #%s.

Checklist
%s

Cena: %s €
`

const ticketReplyBodyTemplate = `Ahoj %s,

servis odpovedal na tvoju otázku k zákazke #%s.

%s

Odpovedať môžeš v portáli:
%s
`

// portalLinks are the customer portal URLs an account email points at.
type portalLinks struct {
	SetPassword string
	Login       string
}

// greetingName picks what the email calls the customer. Walk-in profiles
// sometimes carry an email and no name.
func greetingName(fullName, email string) string {
	if strings.TrimSpace(fullName) != "" {
		return fullName
	}
	return email
}

func inviteEmail(to, name string, userCreated bool, links portalLinks) *notifications.Email {
	intro := inviteIntroExisting
	if userCreated {
		intro = inviteIntroCreated
	}

	return &notifications.Email{
		To:      to,
		Subject: inviteSubject,
		Body:    fmt.Sprintf(inviteBodyTemplate, name, intro, links.SetPassword, links.Login),
	}
}

func welcomeEmail(to, name, username string, links portalLinks) *notifications.Email {
	return &notifications.Email{
		To:      to,
		Subject: welcomeSubject,
		Body:    fmt.Sprintf(welcomeBodyTemplate, name, links.SetPassword, username, links.Login),
	}
}

func doneEmail(to, name string, order *orders.ServiceOrder) *notifications.Email {
	code := order.Code()
	return &notifications.Email{
		To:      to,
		Subject: fmt.Sprintf("Servis hotový #%s", code),
		Body: fmt.Sprintf(doneBodyTemplate,
			name, code, order.WorkDone, orders.ChecklistText(order.Checklist), order.PriceString()),
	}
}

func ticketReplyEmail(to, name, orderCode, message, ticketURL string) *notifications.Email {
	return &notifications.Email{
		To:      to,
		Subject: fmt.Sprintf("Odpoveď servisu k zákazke #%s", orderCode),
		Body:    fmt.Sprintf(ticketReplyBodyTemplate, name, orderCode, message, ticketURL),
	}
}

func protocolEmail(to, name string, order *orders.ServiceOrder, pdf []byte) *notifications.Email {
	code := order.Code()
	return &notifications.Email{
		To:      to,
		Subject: fmt.Sprintf("Servis protokol #%s", code),
		Body: fmt.Sprintf(protocolBodyTemplate,
			name, code, orders.ChecklistText(order.Checklist), order.PriceString()),
		AttachmentName: fmt.Sprintf("servis_protokol_%s.pdf", code),
		Attachment:     pdf,
	}
}
