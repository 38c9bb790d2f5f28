package realtime

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agrimart-np/agrimart-backend/pkg/enums"
)

type capturingPublisher struct {
	channels []string
	payloads []string
	fail     bool
}

func (p *capturingPublisher) Publish(ctx context.Context, channel string, payload any) error {
	if p.fail {
		return errors.New("redis down")
	}
	p.channels = append(p.channels, channel)
	p.payloads = append(p.payloads, payload.(string))
	return nil
}

func (p *capturingPublisher) ChannelKey(parts ...string) string {
	return "agm:events:" + strings.Join(parts, ":")
}

func TestEmitToUserPublishesOnUserChannel(t *testing.T) {
	pub := &capturingPublisher{}
	n := &redisNotifier{pub: pub}

	n.EmitToUser(context.Background(), "u-1", Event{Name: "order:new", Data: map[string]string{"order_id": "AGRM-1"}})

	if len(pub.channels) != 1 {
		t.Fatalf("expected one publish, got %d", len(pub.channels))
	}
	if pub.channels[0] != "agm:events:user:u-1" {
		t.Fatalf("unexpected channel %s", pub.channels[0])
	}
	if !strings.Contains(pub.payloads[0], `"event":"order:new"`) {
		t.Fatalf("payload missing event name: %s", pub.payloads[0])
	}
}

func TestEmitToRoleAndBroadcastChannels(t *testing.T) {
	pub := &capturingPublisher{}
	n := &redisNotifier{pub: pub}

	n.EmitToRole(context.Background(), enums.RoleAdmin, Event{Name: "withdrawal:new"})
	n.Broadcast(context.Background(), Event{Name: "announcement"})

	if pub.channels[0] != "agm:events:role:admin" {
		t.Fatalf("unexpected role channel %s", pub.channels[0])
	}
	if pub.channels[1] != "agm:events:broadcast" {
		t.Fatalf("unexpected broadcast channel %s", pub.channels[1])
	}
}

func TestPublishFailureDoesNotPanic(t *testing.T) {
	pub := &capturingPublisher{fail: true}
	n := &redisNotifier{pub: pub}

	n.EmitToUser(context.Background(), "u-1", Event{Name: "order:new"})
}
