package types

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ChannelInfo struct {
	ChannelId  uuid.UUID
	Ip         string
	OutBound   chan *RequestEvent
	CreateTime time.Time

	ctx context.Context
}

func NewChannelInfo(ctx context.Context, ip string, sendEvents chan *RequestEvent) *ChannelInfo {
	return &ChannelInfo{
		ChannelId:  uuid.New(),
		OutBound:   sendEvents,
		Ip:         ip,
		CreateTime: time.Now(),
		ctx:        ctx,
	}
}

// Done is closed once the listener owning the channel has gone away.
func (c *ChannelInfo) Done() <-chan struct{} {
	return c.ctx.Done()
}
