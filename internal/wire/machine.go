package wire

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/premiumbank/pbank/internal/models"
	"github.com/premiumbank/pbank/internal/utils"
)

// State is a step of the wire approval workflow
type State int

const (
	StateForm State = iota
	StatePendingBankNotice
	StateAwaitingOTP
	StatePendingConfirm
	StateSuccess
)

func (s State) String() string {
	switch s {
	case StateForm:
		return "form"
	case StatePendingBankNotice:
		return "pending-bank-notice"
	case StateAwaitingOTP:
		return "awaiting-otp"
	case StatePendingConfirm:
		return "pending-confirm"
	case StateSuccess:
		return "success"
	default:
		return "unknown"
	}
}

// Messages shown by the workflow
const (
	MsgOTPSent       = "OTP sent. Enter the approval code to complete transfer."
	MsgSuccess       = "Wire transfer successful"
	MsgRequestFailed = "Failed to request OTP."
	MsgConfirmFailed = "Transfer failed."
	MsgOTPRequired   = "Enter approval code (OTP)."
)

const dashboardRoute = "/dashboard"

var (
	// ErrBusy is returned while a network call of the workflow is in flight
	ErrBusy = errors.New("wire transfer is busy")
	// ErrDraftLocked is returned when the draft is edited outside the form step
	ErrDraftLocked = errors.New("wire draft can only be edited on the form")
	// ErrInvalidState is returned when an operation does not apply to the current step
	ErrInvalidState = errors.New("operation not allowed in the current step")
	// ErrNoOverlay is returned when confirming without the review overlay open
	ErrNoOverlay = errors.New("review the transfer before confirming")
	// ErrStale is returned when a response arrives for a cancelled or restarted flow
	ErrStale = errors.New("response belongs to a cancelled wire transfer")
)

// Client is the part of the API client the workflow calls
type Client interface {
	RequestWireOTP(ctx context.Context, req models.WireOTPRequest) (*models.WireOTPResponse, error)
	ConfirmWire(ctx context.Context, req models.WireConfirmRequest) error
}

// Navigator moves the user to another route
type Navigator interface {
	Navigate(route string)
}

// Options configures a Machine
type Options struct {
	// ResetOnCancel clears the draft on cancel instead of keeping it
	ResetOnCancel bool
	Logger        *slog.Logger
}

// Snapshot is a consistent copy of the machine for rendering
type Snapshot struct {
	State   State
	Draft   Draft
	OTP     string
	Handle  string
	Overlay bool
	Busy    bool
	Error   string
	Message string
}

// Machine drives one wire transfer from form to confirmation.
// It is safe for concurrent use; the lock is never held during network calls.
type Machine struct {
	mu     sync.Mutex
	client Client
	nav    Navigator
	opts   Options
	logger *slog.Logger

	state     State
	draft     Draft
	validated *Validated
	otp       string
	handle    string
	hasHandle bool
	overlay   bool
	busy      bool
	errMsg    string
	message   string
	// instance identifies the current flow; responses from older flows are dropped
	instance uint64
}

// NewMachine creates a workflow in the form step with an empty draft
func NewMachine(client Client, nav Navigator, opts Options) *Machine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{client: client, nav: nav, opts: opts, logger: logger, state: StateForm}
}

// Snapshot returns the current state
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		State:   m.state,
		Draft:   m.draft,
		OTP:     m.otp,
		Handle:  m.handle,
		Overlay: m.overlay,
		Busy:    m.busy,
		Error:   m.errMsg,
		Message: m.message,
	}
}

// UpdateDraft edits the draft; only allowed on the form
func (m *Machine) UpdateDraft(fn func(d *Draft)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	if m.state != StateForm {
		return ErrDraftLocked
	}
	fn(&m.draft)
	return nil
}

// Submit validates the draft and moves to the bank notice. No network call is made.
func (m *Machine) Submit() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	if m.state != StateForm {
		return ErrInvalidState
	}

	m.errMsg, m.message = "", ""
	v, err := m.draft.Validate()
	if err != nil {
		m.errMsg = utils.MessageOf(err, err.Error())
		return err
	}
	m.validated = &v
	m.state = StatePendingBankNotice
	return nil
}

// AcknowledgeNotice accepts the bank notice and requests an approval code
func (m *Machine) AcknowledgeNotice(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.state != StatePendingBankNotice || m.validated == nil {
		m.mu.Unlock()
		return ErrInvalidState
	}
	m.state = StateAwaitingOTP
	m.busy = true
	m.errMsg, m.message = "", ""
	instance := m.instance
	req := m.validated.Request()
	m.mu.Unlock()

	resp, err := m.client.RequestWireOTP(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if instance != m.instance {
		m.logger.Debug("discarding stale request-otp response", "instance", instance)
		return ErrStale
	}
	m.busy = false
	if err != nil {
		m.state = StateForm
		m.validated = nil
		m.errMsg = utils.MessageOf(err, MsgRequestFailed)
		m.logger.Debug("wire otp request failed", "error", err)
		return err
	}

	m.handle = resp.Handle()
	m.hasHandle = true
	m.state = StatePendingConfirm
	m.message = MsgOTPSent
	return nil
}

// SetOTP records the approval code typed by the user
func (m *Machine) SetOTP(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	if m.state != StatePendingConfirm {
		return ErrInvalidState
	}
	m.otp = code
	return nil
}

// SubmitOTP checks the approval code and opens the review overlay
func (m *Machine) SubmitOTP() (Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return Summary{}, ErrBusy
	}
	if m.state != StatePendingConfirm || m.validated == nil {
		return Summary{}, ErrInvalidState
	}
	if strings.TrimSpace(m.otp) == "" {
		m.errMsg, m.message = MsgOTPRequired, ""
		return Summary{}, utils.NewValidationError("otp", MsgOTPRequired)
	}
	m.errMsg = ""
	m.overlay = true
	return m.validated.Summary(), nil
}

// DismissOverlay closes the review overlay and stays on the code step
func (m *Machine) DismissOverlay() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrBusy
	}
	if m.state != StatePendingConfirm {
		return ErrInvalidState
	}
	m.overlay = false
	return nil
}

// Confirm completes the transfer with the approval code
func (m *Machine) Confirm(ctx context.Context) error {
	m.mu.Lock()
	if m.busy {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.state != StatePendingConfirm || !m.hasHandle {
		m.mu.Unlock()
		return ErrInvalidState
	}
	if !m.overlay {
		m.mu.Unlock()
		return ErrNoOverlay
	}
	m.busy = true
	m.errMsg, m.message = "", ""
	instance := m.instance
	req := models.WireConfirmRequest{
		OTP:       strings.TrimSpace(m.otp),
		RequestID: m.handle,
		OTPID:     m.handle,
	}
	m.mu.Unlock()

	err := m.client.ConfirmWire(ctx, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	if instance != m.instance {
		m.logger.Debug("discarding stale confirm response", "instance", instance)
		return ErrStale
	}
	m.busy = false
	m.overlay = false
	if err != nil {
		m.errMsg = utils.MessageOf(err, MsgConfirmFailed)
		m.logger.Debug("wire confirm failed", "error", err)
		return err
	}

	m.state = StateSuccess
	m.message = MsgSuccess
	return nil
}

// Cancel abandons the pending transfer and returns to the form. It is the only
// operation accepted while a call is in flight; the late response is dropped.
func (m *Machine) Cancel() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StatePendingBankNotice, StateAwaitingOTP, StatePendingConfirm:
	default:
		return ErrInvalidState
	}

	m.clearFlow()
	if m.opts.ResetOnCancel {
		m.draft = Draft{}
	}
	return nil
}

// DismissSuccess closes the success screen, clears the workflow and goes to the dashboard.
// Calling it again is a no-op.
func (m *Machine) DismissSuccess() error {
	m.mu.Lock()
	if m.state != StateSuccess {
		m.mu.Unlock()
		return nil
	}
	m.clearFlow()
	m.draft = Draft{}
	m.mu.Unlock()

	if m.nav != nil {
		m.nav.Navigate(dashboardRoute)
	}
	return nil
}

// Restart discards everything, including an in-flight call, and starts a new empty form
func (m *Machine) Restart() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clearFlow()
	m.draft = Draft{}
}

// clearFlow ends the current flow instance; caller holds mu
func (m *Machine) clearFlow() {
	m.instance++
	m.state = StateForm
	m.validated = nil
	m.otp = ""
	m.handle = ""
	m.hasHandle = false
	m.overlay = false
	m.busy = false
	m.errMsg = ""
	m.message = ""
}
