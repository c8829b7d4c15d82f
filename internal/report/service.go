package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/signintech/gopdf"
	"go.uber.org/zap"

	"medical-interview-agent/internal/interview"
)

type TelegramClient interface {
	SendMessage(chatID int64, text string) error
	SendDocument(chatID int64, fileData []byte, fileName string) error
}

// Service renders a finished interview into a PDF summary and delivers it
// to the configured clinician chat.
type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	logger       *zap.Logger
}

func NewService(tg TelegramClient, doctorChatID int64, logger *zap.Logger) *Service {
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		logger:       logger,
	}
}

var fontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

func (s *Service) SendClinicianReport(ctx context.Context, session interview.Session) error {
	s.logger.Info("generating interview report",
		zap.String("session_id", session.ID.String()))

	data, err := renderPDF(session)
	if err != nil {
		return err
	}

	fileName := fmt.Sprintf("interview_%s.pdf", session.ID)
	if err := s.tgClient.SendDocument(s.doctorChatID, data, fileName); err != nil {
		return fmt.Errorf("failed to deliver report: %w", err)
	}

	if len(session.RedFlags) > 0 {
		alert := "RED FLAGS:\n- " + strings.Join(session.RedFlags, "\n- ")
		if err := s.tgClient.SendMessage(s.doctorChatID, alert); err != nil {
			s.logger.Warn("failed to send red-flag alert", zap.Error(err))
		}
	}
	return nil
}

func renderPDF(session interview.Session) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	var fontErr error
	fontLoaded := false
	for _, path := range fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			fontLoaded = true
			break
		} else {
			fontErr = err
		}
	}
	if !fontLoaded {
		return nil, fmt.Errorf("failed to load report font (install ttf-dejavu): %w", fontErr)
	}

	w := pdfWriter{pdf: &pdf}

	w.heading(20, "Adaptive Interview Summary")
	w.line(12, fmt.Sprintf("Date: %s", time.Now().Format("02.01.2006 15:04")))
	w.line(12, fmt.Sprintf("Session: %s", session.ID))
	w.line(12, fmt.Sprintf("Patient: %d y/o %s", session.Profile.Age, session.Profile.Gender))
	w.line(12, fmt.Sprintf("Primary complaint: %s", session.Profile.PrimaryComplaint))
	w.line(12, fmt.Sprintf("Stopped: %s after %d questions (confidence %.0f%%)",
		session.StopReason, session.Progress.TotalQuestionsAsked, session.Progress.CurrentConfidence))
	w.gap()

	w.heading(14, "Collected evidence")
	if len(session.Profile.Evidence) == 0 {
		w.line(11, "- none recorded")
	}
	for _, ev := range session.Profile.Evidence {
		parts := []string{ev.Name}
		if ev.Severity > 0 {
			parts = append(parts, fmt.Sprintf("severity %d/10", ev.Severity))
		}
		if ev.Duration != "" {
			parts = append(parts, "duration "+ev.Duration)
		}
		if ev.Location != "" {
			parts = append(parts, "location "+ev.Location)
		}
		if ev.Onset != "" {
			parts = append(parts, "onset "+string(ev.Onset))
		}
		if len(ev.AssociatedSymptoms) > 0 {
			parts = append(parts, "associated: "+strings.Join(ev.AssociatedSymptoms, ", "))
		}
		w.line(11, "- "+strings.Join(parts, ", "))
	}
	w.gap()

	w.heading(14, "Differential")
	if len(session.Candidates) == 0 {
		w.line(11, "- no confident candidates")
	}
	for i, c := range session.Candidates {
		w.line(11, fmt.Sprintf("%d. %s - %.0f%% (%s, urgency %s)",
			i+1, c.Name, c.Confidence, c.Likelihood, c.Urgency))
		if c.Reasoning != "" {
			w.line(10, "   "+c.Reasoning)
		}
	}
	w.gap()

	if len(session.Critical) > 0 || len(session.RedFlags) > 0 {
		w.heading(14, "Alerts")
		for _, line := range session.Critical {
			w.line(11, "- CRITICAL: "+line)
		}
		for _, line := range session.RedFlags {
			w.line(11, "- RED FLAG: "+line)
		}
		w.gap()
	}

	if g := session.Guidance; g != nil {
		w.heading(14, "Guidance")
		w.list("Next steps", g.NextSteps)
		w.list("Self care", g.SelfCareRecommendations)
		w.list("When to seek care", g.WhenToSeekCare)
		w.list("Emergency indicators", g.EmergencyIndicators)
	}

	if w.err != nil {
		return nil, w.err
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfWriter collects the first font error instead of checking every call.
type pdfWriter struct {
	pdf *gopdf.GoPdf
	err error
}

func (w *pdfWriter) heading(size float64, text string) {
	if w.err != nil {
		return
	}
	if err := w.pdf.SetFont("DejaVu", "", size); err != nil {
		w.err = err
		return
	}
	w.pdf.Cell(nil, text)
	w.pdf.Br(size + 6)
}

func (w *pdfWriter) line(size float64, text string) {
	if w.err != nil {
		return
	}
	if err := w.pdf.SetFont("DejaVu", "", size); err != nil {
		w.err = err
		return
	}
	lines, _ := w.pdf.SplitText(text, 500)
	for _, l := range lines {
		w.pdf.Cell(nil, l)
		w.pdf.Br(size + 3)
	}
}

func (w *pdfWriter) list(title string, items []string) {
	if len(items) == 0 {
		return
	}
	w.line(12, title+":")
	for _, item := range items {
		w.line(11, "- "+item)
	}
	w.gap()
}

func (w *pdfWriter) gap() {
	if w.err == nil {
		w.pdf.Br(10)
	}
}
