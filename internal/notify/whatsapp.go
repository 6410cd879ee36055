package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// WhatsApp sends plain text messages from a linked WhatsApp device. The
// device session lives in a sqlite file under the data directory.
type WhatsApp struct {
	client *whatsmeow.Client
	qrOut  io.Writer
	log    zerolog.Logger
}

func NewWhatsApp(ctx context.Context, dataDir string, qrOut io.Writer) (*WhatsApp, error) {
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("create whatsapp data dir: %w", err)
	}
	if qrOut == nil {
		qrOut = os.Stdout
	}

	log := newWhatsAppLog(os.Stderr)

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(dataDir, "whatsmeow.db"))
	container, err := sqlstore.New(ctx, "sqlite3", dsn, libraryLog(log, "store"))
	if err != nil {
		return nil, fmt.Errorf("open whatsapp store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load whatsapp device: %w", err)
	}

	w := &WhatsApp{
		client: whatsmeow.NewClient(device, libraryLog(log, "client")),
		qrOut:  qrOut,
		log:    log,
	}
	w.client.AddEventHandler(w.handleEvent)
	return w, nil
}

func newWhatsAppLog(out io.Writer) zerolog.Logger {
	return zerolog.New(out).Level(zerolog.InfoLevel).With().Timestamp().Str("component", "notify.whatsapp").Logger()
}

// libraryLog hands the whatsmeow internals the same zerolog output, tagged
// with the library module that wrote the line.
func libraryLog(log zerolog.Logger, module string) waLog.Logger {
	return waLog.Zerolog(log.With().Str("module", module).Logger())
}

// Connect links the device on first use by printing pairing QR codes and
// blocks until pairing finishes. Later runs reuse the stored session.
func (w *WhatsApp) Connect(ctx context.Context) error {
	if w.client.Store.ID != nil {
		if err := w.client.Connect(); err != nil {
			return fmt.Errorf("connect whatsapp: %w", err)
		}
		return nil
	}

	qrChan, err := w.client.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("whatsapp qr channel: %w", err)
	}
	if err := w.client.Connect(); err != nil {
		return fmt.Errorf("connect whatsapp: %w", err)
	}

	for evt := range qrChan {
		switch evt.Event {
		case "code":
			qr, err := qrcode.New(evt.Code, qrcode.Medium)
			if err != nil {
				fmt.Fprintf(w.qrOut, "WhatsApp pairing code: %s\n", evt.Code)
				continue
			}
			fmt.Fprintln(w.qrOut, qr.ToSmallString(false))
			fmt.Fprintln(w.qrOut, "Scan with WhatsApp > Settings > Linked Devices > Link a Device")
		case "success":
			w.log.Info().Msg("device linked")
			return nil
		default:
			return fmt.Errorf("whatsapp pairing: %s", evt.Event)
		}
	}
	return nil
}

func (w *WhatsApp) Send(ctx context.Context, phone, text string) error {
	number := NormalizePhone(phone)
	if number == "" {
		return fmt.Errorf("invalid phone number %q", phone)
	}

	resp, err := w.client.IsOnWhatsApp(ctx, []string{"+" + number})
	if err != nil {
		return fmt.Errorf("check whatsapp number: %w", err)
	}
	if len(resp) == 0 || !resp[0].IsIn {
		return fmt.Errorf("number %s is not on whatsapp", number)
	}

	if _, err := w.client.SendMessage(ctx, resp[0].JID, &waE2E.Message{Conversation: &text}); err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	w.log.Debug().Str("jid", resp[0].JID.String()).Msg("message sent")
	return nil
}

func (w *WhatsApp) Close() {
	w.client.Disconnect()
}

func (w *WhatsApp) handleEvent(evt interface{}) {
	switch evt.(type) {
	case *events.Connected:
		w.log.Info().Msg("connected")
	case *events.Disconnected:
		w.log.Warn().Msg("disconnected")
	case *events.LoggedOut:
		w.log.Warn().Msg("logged out, pairing required on next start")
	}
}

// NormalizePhone strips formatting and returns digits with the country code.
// A leading + is dropped; a leading 00 international prefix is removed.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	digits = strings.TrimPrefix(digits, "00")
	if len(digits) < 8 {
		return ""
	}
	return digits
}
