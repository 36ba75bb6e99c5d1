package emailsvc

import (
	"net/http"
	"net/mail"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/homeschool/core"
)

func testConfig() *core.Config {
	return &core.Config{
		AppName: "Homeschool Tracker",
		Mail:    core.MailConfig{SendgridAPIKey: "key", DefaultFromEmail: "noreply@example.com"},
	}
}

type discardLogger struct{}

func (discardLogger) Debug(string, ...interface{}) {}
func (discardLogger) Info(string, ...interface{})  {}
func (discardLogger) Warn(string, ...interface{})  {}
func (discardLogger) Error(string, ...interface{}) {}
func (discardLogger) Fatal(string, ...interface{}) {}

func TestConsoleService_SendMessages(t *testing.T) {
	svc := NewConsoleServiceMock(testConfig())
	var out strings.Builder
	svc.out = &out

	msg := &core.EmailMessage{
		To:          []mail.Address{{Address: "parent@example.com"}},
		Subject:     "Progress report",
		TextContent: "All good",
		HTMLContent: "<p>All good</p>",
	}
	msg.Attach([]byte(`{"assignments": []}`), "backup.json", "application/json")
	noRecipient := &core.EmailMessage{Subject: "dropped", TextContent: "x"}

	if err := svc.SendMessages(msg, noRecipient); err != nil {
		t.Fatalf("SendMessages() error = %v", err)
	}
	sent := svc.SentMessages()
	if len(sent) != 1 || sent[0].Subject != "Progress report" {
		t.Fatalf("SentMessages() = %+v", sent)
	}
	for _, want := range []string{"Subject: [Homeschool Tracker] Progress report", "To: <parent@example.com>", "filename=backup.json"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output does not contain %q", want)
		}
	}
}

func TestSendgridService_SendMessages(t *testing.T) {
	origSend := sendFunc
	defer func() { sendFunc = origSend }()

	tests := []struct {
		name    string
		res     *rest.Response
		err     error
		wantErr bool
	}{
		{name: "accepted", res: &rest.Response{StatusCode: http.StatusAccepted}},
		{name: "rejected", res: &rest.Response{StatusCode: http.StatusUnauthorized, Body: "bad key"}, wantErr: true},
		{name: "transport error", err: errors.New("dial tcp"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int
			sendFunc = func(req rest.Request) (*rest.Response, error) {
				calls++
				if req.Method != http.MethodPost || !strings.Contains(string(req.Body), "parent@example.com") {
					t.Errorf("unexpected request: %s %s", req.Method, req.Body)
				}
				return tt.res, tt.err
			}

			svc := NewSendgridService(testConfig(), discardLogger{})
			err := svc.SendMessages(&core.EmailMessage{
				To:          []mail.Address{{Name: "Parent", Address: "parent@example.com"}},
				Subject:     "Progress report",
				TextContent: "All good",
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("SendMessages() error = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != 1 {
				t.Errorf("sendgrid called %d times, want 1", calls)
			}
		})
	}
}

func TestNewService(t *testing.T) {
	conf := testConfig()
	conf.Debug = true
	if _, ok := NewService(conf, discardLogger{}).(*ConsoleService); !ok {
		t.Error("NewService() in debug: want console service")
	}
	conf.Debug = false
	if _, ok := NewService(conf, discardLogger{}).(*SendgridService); !ok {
		t.Error("NewService() with API key: want sendgrid service")
	}
}
