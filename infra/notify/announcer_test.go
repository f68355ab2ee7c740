package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"

	"github.com/jhaeusler/sessionbot/core/model"
	"github.com/jhaeusler/sessionbot/core/schedule"
)

type fakeToken struct{ err error }

func (t fakeToken) Wait() bool                     { return true }
func (t fakeToken) WaitTimeout(time.Duration) bool { return true }
func (t fakeToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
func (t fakeToken) Error() error { return t.err }

type fakeClient struct {
	connected  bool
	published  [][]byte
	topics     []string
	publishErr error
}

func (c *fakeClient) IsConnected() bool { return c.connected }
func (c *fakeClient) Connect() paho.Token {
	c.connected = true
	return fakeToken{}
}
func (c *fakeClient) Disconnect(uint) { c.connected = false }
func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) paho.Token {
	if c.publishErr != nil {
		return fakeToken{err: c.publishErr}
	}
	c.topics = append(c.topics, topic)
	c.published = append(c.published, payload.([]byte))
	return fakeToken{}
}

func withFakeClient(t *testing.T, cli *fakeClient) {
	t.Helper()
	orig := newMQTTClient
	newMQTTClient = func(*paho.ClientOptions) pahoClient { return cli }
	t.Cleanup(func() { newMQTTClient = orig })
}

func TestAnnounce(t *testing.T) {
	cli := &fakeClient{}
	withFakeClient(t, cli)

	a, err := NewAnnouncer(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	require.NoError(t, err)
	require.True(t, cli.connected)

	d := model.NewDay(2026, time.January, 2)
	proposals := []schedule.Proposal{
		{
			Result: model.SchedulingResult{
				Campaign: model.Campaign{Name: "Mythgart"},
				Date:     &d,
				Missing:  []model.Participant{"bob"},
			},
			Tier: model.MaybePossible,
		},
		{
			Result: model.SchedulingResult{Campaign: model.Campaign{Name: "Shadowfen"}},
			Tier:   model.NotPossible,
		},
	}
	require.NoError(t, a.Announce("run-1", proposals))
	require.Len(t, cli.published, 2)
	require.Equal(t, "sessionbot/proposals", cli.topics[0])

	var msg Message
	require.NoError(t, json.Unmarshal(cli.published[0], &msg))
	require.Equal(t, "Mythgart", msg.Campaign)
	require.Equal(t, "maybe possible", msg.Tier)
	require.Equal(t, "Friday", msg.Weekday)
	require.Equal(t, "run-1", msg.RunID)
	require.NotEmpty(t, msg.ID)

	a.Close()
	require.False(t, cli.connected)
}

func TestAnnouncePublishError(t *testing.T) {
	cli := &fakeClient{publishErr: errors.New("broker gone")}
	withFakeClient(t, cli)

	a, err := NewAnnouncer(Config{Enabled: true, Broker: "tcp://localhost:1883"})
	require.NoError(t, err)

	proposals := []schedule.Proposal{
		{Result: model.SchedulingResult{Campaign: model.Campaign{Name: "Mythgart"}}},
	}
	require.Error(t, a.Announce("run-1", proposals))
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, Config{}.Validate(), "disabled announcer needs no broker")
	require.Error(t, Config{Enabled: true}.Validate())
	cfg := Config{Enabled: true, Broker: "tcp://h:1883"}
	cfg.SetDefaults()
	require.Equal(t, "sessionbot", cfg.ClientID)
	require.NoError(t, cfg.Validate())
}
