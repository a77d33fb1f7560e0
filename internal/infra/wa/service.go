package wa

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/mdp/qrterminal"
	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	walog "go.mau.fi/whatsmeow/util/log"
	_ "modernc.org/sqlite"
)

// Service wraps a whatsmeow client used purely for outbound nudges. Login
// state (device keys) lives in the same SQLite file as the application data.
type Service struct {
	client     *whatsmeow.Client
	dbBasePath string
	log        walog.Logger
}

func NewService(dbBasePath string, logger walog.Logger) *Service {
	return &Service{
		dbBasePath: dbBasePath,
		log:        logger,
	}
}

// Initialize opens the device store and builds the client without connecting.
func (s *Service) Initialize(ctx context.Context) error {
	// WAL mode persists on the DB file once enabled; busy_timeout keeps the
	// shared file usable next to the application's own connection.
	dbAddress := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", s.dbBasePath)
	container, err := sqlstore.New(ctx, "sqlite", dbAddress, s.log)
	if err != nil {
		return fmt.Errorf("failed to initialize device store: %w", err)
	}

	devices, err := container.GetAllDevices(ctx)
	if err != nil {
		return fmt.Errorf("failed to get devices: %w", err)
	}

	var device *store.Device
	if len(devices) > 0 {
		device = devices[0]
	} else {
		device = container.NewDevice()
	}

	s.client = whatsmeow.NewClient(device, s.log)
	return nil
}

func (s *Service) Connect() error {
	if s.client == nil {
		return fmt.Errorf("client not initialized")
	}
	if s.client.IsConnected() {
		return nil
	}
	return s.client.Connect()
}

func (s *Service) Disconnect() {
	if s.client != nil {
		s.client.Disconnect()
	}
}

func (s *Service) IsLoggedIn() bool {
	return s.client != nil && s.client.Store.ID != nil
}

// SendText delivers a plain text message to the given phone number. The
// number is normalized first; clearly invalid numbers are rejected before
// any network call.
func (s *Service) SendText(ctx context.Context, phone, message string) error {
	if s.client == nil || !s.client.IsConnected() {
		return fmt.Errorf("whatsapp client is not connected")
	}

	cleaned, err := CleanPhoneNumber(phone)
	if err != nil {
		return err
	}

	jid := types.NewJID(cleaned, types.DefaultUserServer)
	_, err = s.client.SendMessage(ctx, jid, &waE2E.Message{
		Conversation: &message,
	})
	if err != nil {
		return fmt.Errorf("failed to send whatsapp message: %w", err)
	}
	return nil
}

// CleanPhoneNumber strips formatting characters ('+', spaces, dashes) and
// rejects numbers too short to be dialable.
func CleanPhoneNumber(phone string) (string, error) {
	cleaned := strings.NewReplacer("+", "", " ", "", "-", "").Replace(phone)
	if len(cleaned) < 10 {
		return "", fmt.Errorf("invalid phone number %q", phone)
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("invalid phone number %q", phone)
		}
	}
	return cleaned, nil
}

// Pair starts phone-number pairing and returns the code to confirm on the
// linked device.
func (s *Service) Pair(ctx context.Context, phone string) (string, error) {
	if s.IsLoggedIn() {
		return "", fmt.Errorf("already logged in")
	}
	if !s.client.IsConnected() {
		return "", fmt.Errorf("client not connected")
	}
	code, err := s.client.PairPhone(ctx, phone, true, whatsmeow.PairClientChrome, "Chrome (Linux)")
	if err != nil {
		return "", err
	}
	return code, nil
}

// PrintQR renders the login QR to stdout and connects once scanned.
func (s *Service) PrintQR(ctx context.Context) {
	if s.client.Store.ID != nil {
		return
	}
	qrChan, _ := s.client.GetQRChannel(ctx)
	if err := s.client.Connect(); err != nil {
		fmt.Println("Failed to connect for QR:", err)
		return
	}
	for evt := range qrChan {
		if evt.Event == "code" {
			qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
		} else {
			fmt.Println("Login event:", evt.Event)
		}
	}
}
