package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"swimclub/internal/adapters/email"
	planStore "swimclub/internal/adapters/storage/plan"
	trainerStore "swimclub/internal/adapters/storage/trainer"
	planDomain "swimclub/internal/domain/plan"
)

// Orchestrator errors
var (
	ErrNoPartyTrainers = errors.New("no trainers with a valid email address are assigned to the party")
)

// PlanSessionInput carries input for placing a workout on a party calendar.
// Either SessionID or the AI* fields are populated, never both.
type PlanSessionInput struct {
	PlanID      string // empty creates a new plan
	SessionID   string
	PartyID     string
	PlannedDate string // YYYY-MM-DD
	TrainerID   string // empty when planned by an administrator

	AITitle       string
	AIContent     string
	AITotalMeters string
	AIFocusStroke string
	AIIntensity   string
}

// PlanSessionDeps holds dependencies for PlanSession.
type PlanSessionDeps struct {
	PlanStore  planStore.Store
	GenerateID func() string
	Now        func() time.Time
}

// ExecutePlanSession creates or moves a planned session.
// PRE: caller has planner access
// POST: plan persisted; CreatedAt and PlannedBy are never changed on update
func ExecutePlanSession(ctx context.Context, input PlanSessionInput, deps PlanSessionDeps) (string, error) {
	var p planDomain.PlannedSession

	if input.PlanID != "" {
		existing, err := deps.PlanStore.GetByID(ctx, input.PlanID)
		if err != nil {
			return "", err
		}
		p = existing
	} else {
		p = planDomain.PlannedSession{
			ID:        deps.GenerateID(),
			PlannedBy: input.TrainerID,
			CreatedAt: deps.Now(),
		}
	}

	p.SessionID = input.SessionID
	p.PartyID = input.PartyID
	p.PlannedDate = input.PlannedDate
	p.AITitle = input.AITitle
	p.AIContent = input.AIContent
	p.AITotalMeters = input.AITotalMeters
	p.AIFocusStroke = input.AIFocusStroke
	p.AIIntensity = input.AIIntensity

	if err := p.Validate(); err != nil {
		return "", err
	}
	if err := deps.PlanStore.Save(ctx, p); err != nil {
		return "", err
	}

	slog.Info("session_planned", "plan_id", p.ID, "party_id", p.PartyID, "date", p.PlannedDate)
	return p.ID, nil
}

// DeletePlanDeps holds dependencies for DeletePlan.
type DeletePlanDeps struct {
	PlanStore planStore.Store
}

// ExecuteDeletePlan removes a planned session from the calendar. The bank
// session it references is untouched.
func ExecuteDeletePlan(ctx context.Context, planID string, deps DeletePlanDeps) error {
	if err := deps.PlanStore.Delete(ctx, planID); err != nil {
		return err
	}
	slog.Info("plan_deleted", "plan_id", planID)
	return nil
}

// SendPlanEmailDeps holds dependencies for SendPlanEmail.
type SendPlanEmailDeps struct {
	PlanStore    planStore.Store
	TrainerStore trainerStore.Store
	Email        email.Sender
	From         string // sender address, e.g. "Skien Svømmeklubb <noreply@skiensvk.no>"
}

// SendPlanEmailResult reports who the plan was mailed to.
type SendPlanEmailResult struct {
	Recipients []string
	MessageID  string
}

// ExecuteSendPlanEmail mails a planned session to every trainer assigned to
// the plan's party. Trainers without a usable email address are skipped.
// PRE: caller has planner access
// POST: one email sent to all recipients, or ErrNoPartyTrainers when the
// party has no trainer with a valid address
func ExecuteSendPlanEmail(ctx context.Context, planID string, deps SendPlanEmailDeps) (SendPlanEmailResult, error) {
	p, err := deps.PlanStore.GetByID(ctx, planID)
	if err != nil {
		return SendPlanEmailResult{}, err
	}

	entries, err := deps.PlanStore.ListEntries(ctx, p.PartyID, p.PlannedDate, p.PlannedDate)
	if err != nil {
		return SendPlanEmailResult{}, err
	}
	var entry planStore.Entry
	for _, e := range entries {
		if e.Plan.ID == p.ID {
			entry = e
			break
		}
	}
	if entry.Plan.ID == "" {
		entry.Plan = p
		entry.Title = p.AITitle
		entry.Content = p.AIContent
		entry.TotalMeters = p.AITotalMeters
	}

	trainers, err := deps.TrainerStore.ListByParty(ctx, p.PartyID)
	if err != nil {
		return SendPlanEmailResult{}, err
	}
	var recipients []string
	for _, t := range trainers {
		if strings.Contains(t.Email, "@") {
			recipients = append(recipients, t.Email)
		}
	}
	if len(recipients) == 0 {
		return SendPlanEmailResult{}, ErrNoPartyTrainers
	}

	dateStr := norwegianLongDate(p.PlannedDate)
	title := entry.Title
	if title == "" {
		title = "Uten tittel"
	}

	result, err := deps.Email.Send(ctx, email.SendRequest{
		To:      recipients,
		From:    deps.From,
		Subject: fmt.Sprintf("Planlagt økt %s: %s", dateStr, title),
		HTML:    planEmailHTML(dateStr, title, entry.TotalMeters, entry.Content),
	})
	if err != nil {
		return SendPlanEmailResult{}, fmt.Errorf("sending plan email: %w", err)
	}

	slog.Info("plan_email_sent", "plan_id", planID, "recipients", len(recipients))
	return SendPlanEmailResult{Recipients: recipients, MessageID: result.MessageID}, nil
}

func planEmailHTML(dateStr, title, totalMeters, content string) string {
	var b strings.Builder
	b.WriteString("<p>Hei,</p>\n")
	b.WriteString("<p>Her er planlagt økt for <strong>" + html.EscapeString(dateStr) + "</strong>.</p>\n")
	b.WriteString("<p><strong>Tittel:</strong> " + html.EscapeString(title) + "</p>\n")
	if totalMeters != "" {
		b.WriteString("<p><strong>Totale meter:</strong> " + html.EscapeString(totalMeters) + "</p>\n")
	}
	b.WriteString("<p><strong>Innhold:</strong></p>\n")
	if content != "" {
		b.WriteString(`<pre style="white-space: pre-wrap; font-family: sans-serif; font-size: 14px; background: #f4f4f5; padding: 1rem; border-radius: 6px;">`)
		b.WriteString(html.EscapeString(content))
		b.WriteString("</pre>\n")
	} else {
		b.WriteString("<p><em>Ingen innhold for denne økten.</em></p>\n")
	}
	b.WriteString(`<p style="margin-top: 1.5rem; color: #64748b; font-size: 12px;">Sendt fra Skien Svømmeklubb – Trenere</p>`)
	return b.String()
}

var norwegianWeekdays = [...]string{"søndag", "mandag", "tirsdag", "onsdag", "torsdag", "fredag", "lørdag"}

var norwegianMonths = [...]string{"januar", "februar", "mars", "april", "mai", "juni",
	"juli", "august", "september", "oktober", "november", "desember"}

// norwegianLongDate renders a YYYY-MM-DD date the way Norwegian readers
// expect, e.g. "mandag 2. mars 2026". Falls back to the raw string on
// malformed input.
func norwegianLongDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %d. %s %d",
		norwegianWeekdays[int(t.Weekday())], t.Day(), norwegianMonths[int(t.Month())-1], t.Year())
}
