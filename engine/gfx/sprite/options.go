package sprite

import (
	"github.com/hubastard/sprig/engine/scene"
	"go.uber.org/zap"
)

type options struct {
	pose      scene.Update
	log       *zap.Logger
	ownsPipe  bool
	minFilter string
	magFilter string
	wrap      string
	mipmaps   bool
}

func defaultOptions() options {
	return options{
		log:       zap.NewNop(),
		minFilter: "linear",
		magFilter: "nearest",
		wrap:      "repeat",
		mipmaps:   true,
	}
}

type Option func(*options)

// WithPosition places the sprite; the default is the origin.
func WithPosition(x, y float32) Option {
	return func(o *options) { o.pose.X, o.pose.Y = scene.Some(x), scene.Some(y) }
}

// WithSize scales the unit quad; the default is (1,1).
func WithSize(w, h float32) Option {
	return func(o *options) { o.pose.Width, o.pose.Height = scene.Some(w), scene.Some(h) }
}

// WithAngle rotates the sprite by rad radians; the default is 0.
func WithAngle(rad float32) Option {
	return func(o *options) { o.pose.Angle = scene.Some(rad) }
}

// WithPose applies the set fields of u; fields it leaves unset keep what
// earlier options chose.
func WithPose(u scene.Update) Option {
	return func(o *options) {
		merge := func(dst *scene.Optional, v scene.Optional) {
			if v.IsSet() {
				*dst = v
			}
		}
		merge(&o.pose.X, u.X)
		merge(&o.pose.Y, u.Y)
		merge(&o.pose.Width, u.Width)
		merge(&o.pose.Height, u.Height)
		merge(&o.pose.Angle, u.Angle)
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithOwnedPipeline hands the pipeline to the sprite: Close deletes it.
// Leave it out when the pipeline is shared between sprites.
func WithOwnedPipeline() Option {
	return func(o *options) { o.ownsPipe = true }
}

// WithTextureFilter sets min/mag filters ("nearest", "linear", "linear_mipmap").
func WithTextureFilter(min, mag string) Option {
	return func(o *options) { o.minFilter, o.magFilter = min, mag }
}

// WithTextureWrap sets the wrap mode ("clamp", "repeat") on both axes.
func WithTextureWrap(mode string) Option {
	return func(o *options) { o.wrap = mode }
}
