package service

import (
	"log/slog"
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/fpgaerr"
	"github.com/fpgad-project/fpgad-go/pkg/journal"
	"github.com/fpgad-project/fpgad-go/pkg/version"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// Dispatcher routes decoded wire requests to the Control and Status
// services and converts results to wire responses. Errors are logged
// exactly once here, at conversion to their boundary representation.
type Dispatcher struct {
	services *Services
	log      *slog.Logger
	journal  journal.Recorder
}

// NewDispatcher creates a dispatcher over the given services.
func NewDispatcher(services *Services) *Dispatcher {
	return &Dispatcher{services: services, log: slog.Default(), journal: journal.Noop{}}
}

// SetLogger replaces the logger. Pass nil to restore the default.
func (d *Dispatcher) SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	d.log = log
}

// SetJournal installs an operations journal. Pass nil to disable.
func (d *Dispatcher) SetJournal(rec journal.Recorder) {
	if rec == nil {
		rec = journal.Noop{}
	}
	d.journal = rec
}

// HandleRaw decodes one request frame and returns the encoded
// response frame. Undecodable requests get a zero message ID response.
func (d *Dispatcher) HandleRaw(data []byte) []byte {
	req, err := wire.DecodeRequest(data)
	if err != nil {
		d.log.Error("undecodable request", "error", err)
		resp := &wire.Response{
			Status: wire.StatusInvalidArguments,
			Error:  fpgaerr.Argumentf("undecodable request: %v", err).Error(),
		}
		out, _ := wire.EncodeResponse(resp)
		return out
	}
	out, _ := wire.EncodeResponse(d.Handle(req))
	return out
}

// Handle executes one request and builds its response.
func (d *Dispatcher) Handle(req *wire.Request) *wire.Response {
	result, err := d.call(req)
	if err != nil {
		d.log.Error("request failed",
			"method", req.Method.String(), "id", req.MessageID, "error", err)
		resp := &wire.Response{
			MessageID: req.MessageID,
			Status:    wire.StatusFromError(err),
			Error:     boundaryMessage(err),
		}
		d.record(req, resp)
		return resp
	}
	resp := &wire.Response{
		MessageID: req.MessageID,
		Status:    wire.StatusOK,
		Result:    result,
	}
	d.record(req, resp)
	return resp
}

func (d *Dispatcher) record(req *wire.Request, resp *wire.Response) {
	d.journal.Record(journal.Entry{
		Timestamp: time.Now(),
		MessageID: req.MessageID,
		Method:    req.Method,
		Device:    req.Args.Device,
		Overlay:   req.Args.Overlay,
		Source:    req.Args.Source,
		Status:    resp.Status,
		Result:    resp.Result,
		Error:     resp.Error,
	})
}

func (d *Dispatcher) call(req *wire.Request) (string, error) {
	if err := checkProtocol(req.Protocol); err != nil {
		return "", err
	}
	a := req.Args
	ctrl, stat := d.services.Control, d.services.Status
	switch req.Method {
	case wire.MethodSetFpgaFlags:
		return ctrl.SetFpgaFlags(a.Platform, a.Device, a.Flags)
	case wire.MethodWriteBitstreamDirect:
		return ctrl.WriteBitstreamDirect(a.Platform, a.Device, a.Source, a.LookupPath)
	case wire.MethodApplyOverlay:
		return ctrl.ApplyOverlay(a.Platform, a.Overlay, a.Source, a.LookupPath)
	case wire.MethodRemoveOverlay:
		return ctrl.RemoveOverlay(a.Platform, a.Overlay)
	case wire.MethodWriteProperty:
		return ctrl.WriteProperty(a.Path, a.Data)
	case wire.MethodWritePropertyBytes:
		return ctrl.WritePropertyBytes(a.Path, a.DataBytes)
	case wire.MethodGetFpgaState:
		return stat.GetFpgaState(a.Platform, a.Device)
	case wire.MethodGetFpgaFlags:
		return stat.GetFpgaFlags(a.Platform, a.Device)
	case wire.MethodGetOverlayStatus:
		return stat.GetOverlayStatus(a.Platform, a.Overlay)
	case wire.MethodGetOverlays:
		return stat.GetOverlays()
	case wire.MethodGetPlatformType:
		return stat.GetPlatformType(a.Device)
	case wire.MethodGetPlatformTypes:
		return stat.GetPlatformTypes()
	case wire.MethodReadProperty:
		return stat.ReadProperty(a.Path)
	default:
		return "", fpgaerr.Argumentf("unknown method %d", req.Method)
	}
}

// checkProtocol rejects requests from a different protocol major
// version. An absent version is accepted.
func checkProtocol(s string) error {
	if s == "" {
		return nil
	}
	v, err := version.Parse(s)
	if err != nil {
		return fpgaerr.Argumentf("bad protocol version: %v", err)
	}
	if !v.Compatible(version.Current()) {
		return fpgaerr.Argumentf(
			"protocol version %s is not compatible with %s", v, version.Protocol)
	}
	return nil
}

// boundaryMessage renders an error with its variant-name prefix. Errors
// that did not originate in the taxonomy are reported as Internal.
func boundaryMessage(err error) string {
	if fpgaerr.KindOf(err) == fpgaerr.KindUnknown {
		return fpgaerr.Internalf("%v", err).Error()
	}
	return err.Error()
}
