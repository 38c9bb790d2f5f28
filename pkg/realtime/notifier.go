package realtime

import (
	"context"
	"encoding/json"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
	"github.com/agrimart-np/agrimart-backend/pkg/logger"
	"github.com/agrimart-np/agrimart-backend/pkg/redis"
)

// Event is the payload fanned out to connected clients. The socket gateway
// subscribes to the per-user, per-role and broadcast channels and forwards
// events verbatim.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Notifier delivers realtime events. Delivery is fire-and-forget: failures
// are logged and never surface to the caller, a dropped notification must not
// fail a settlement.
type Notifier interface {
	EmitToUser(ctx context.Context, userID string, event Event)
	EmitToRole(ctx context.Context, role enums.Role, event Event)
	Broadcast(ctx context.Context, event Event)
}

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
	ChannelKey(parts ...string) string
}

type redisNotifier struct {
	pub  publisher
	logg *logger.Logger
}

// NewRedisNotifier builds a Notifier backed by redis pub/sub channels.
func NewRedisNotifier(client *redis.Client, logg *logger.Logger) Notifier {
	return &redisNotifier{pub: client, logg: logg}
}

func (n *redisNotifier) EmitToUser(ctx context.Context, userID string, event Event) {
	n.publish(ctx, n.pub.ChannelKey("user", userID), event)
}

func (n *redisNotifier) EmitToRole(ctx context.Context, role enums.Role, event Event) {
	n.publish(ctx, n.pub.ChannelKey("role", role.String()), event)
}

func (n *redisNotifier) Broadcast(ctx context.Context, event Event) {
	n.publish(ctx, n.pub.ChannelKey("broadcast"), event)
}

func (n *redisNotifier) publish(ctx context.Context, channel string, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		if n.logg != nil {
			n.logg.Error(ctx, "marshaling realtime event", err)
		}
		return
	}
	if err := n.pub.Publish(ctx, channel, string(payload)); err != nil {
		if n.logg != nil {
			n.logg.Error(ctx, "publishing realtime event", err)
		}
	}
}

// Nop returns a Notifier that drops every event. Used in tests and tooling.
func Nop() Notifier { return nopNotifier{} }

type nopNotifier struct{}

func (nopNotifier) EmitToUser(context.Context, string, Event)    {}
func (nopNotifier) EmitToRole(context.Context, enums.Role, Event) {}
func (nopNotifier) Broadcast(context.Context, Event)             {}
