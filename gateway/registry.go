package gateway

import (
	cmp "cmp"

	"github.com/emirpasic/gods/v2/maps/treemap"

	"github.com/lyrastone-labs/matchcore/domain"
	"github.com/lyrastone-labs/matchcore/logger"
)

// Registry binds each client id to exactly one socket, first-message-wins:
// the socket that sends the first frame for a client id owns it for the
// rest of the session. A later frame claiming the same client id from a
// different socket is dropped with a warning, never silently rebound —
// that would let one client's traffic leak onto another's connection.
//
// Client ids are kept in an ordered map (rather than a plain Go map) so
// operational enumeration — a status dump, a metrics walk — visits them
// in a stable, deterministic order.
type Registry struct {
	bindings *treemap.Map[domain.ClientId, string]
	log      *logger.Logger
}

// NewRegistry constructs an empty client registry.
func NewRegistry(log *logger.Logger) *Registry {
	return &Registry{
		bindings: treemap.NewWith[domain.ClientId, string](cmp.Compare[domain.ClientId]),
		log:      log,
	}
}

// Bind claims socketId for clientId if clientId is unbound, or confirms
// socketId is the socket clientId is already bound to. It reports the
// socket id clientId is actually bound to, and whether the frame that
// triggered this call should be accepted (true) or dropped (false).
func (r *Registry) Bind(clientId domain.ClientId, socketId string) (bound string, accept bool) {
	if existing, found := r.bindings.Get(clientId); found {
		if existing != socketId {
			if r.log != nil {
				r.log.Log("gateway: dropping frame for client % from socket %, bound to %\n",
					clientId, socketId, existing)
			}
			return existing, false
		}
		return existing, true
	}
	r.bindings.Put(clientId, socketId)
	return socketId, true
}

// SocketFor returns the socket clientId is bound to, if any.
func (r *Registry) SocketFor(clientId domain.ClientId) (string, bool) {
	return r.bindings.Get(clientId)
}

// ClientIds returns every bound client id, in ascending order.
func (r *Registry) ClientIds() []domain.ClientId {
	return r.bindings.Keys()
}

// Unbind releases clientId's socket binding, e.g. on disconnect.
func (r *Registry) Unbind(clientId domain.ClientId) {
	r.bindings.Remove(clientId)
}
