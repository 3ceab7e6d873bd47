package core

import (
	"context"
	"sync/atomic"
)

// SampleProducer periodically samples the analog input and publishes each
// reading to the sample channel, dropping it when the channel is full.
type SampleProducer struct {
	cfg     *Config
	input   *AnalogIn
	samples *SampleChannel

	produced atomic.Uint32
}

// NewSampleProducer creates a producer feeding samples.
func NewSampleProducer(cfg *Config, input *AnalogIn, samples *SampleChannel) *SampleProducer {
	return &SampleProducer{cfg: cfg, input: input, samples: samples}
}

// Run samples until ctx is done. Conversion errors are logged and skipped.
func (p *SampleProducer) Run(ctx context.Context) error {
	for {
		if err := p.Step(ctx); err != nil && ctx.Err() != nil {
			return ctx.Err()
		}

		if err := sleep(ctx, p.cfg.SampleInterval); err != nil {
			return err
		}
	}
}

// Step acquires and publishes one sample.
func (p *SampleProducer) Step(ctx context.Context) error {
	v, err := p.input.ReadAsync(ctx)
	if err != nil {
		DebugAsync("[ADC] read failed: " + err.Error())
		return err
	}

	DebugAsync("[ADC] sample=" + utoa(uint32(v)))
	if p.samples.TryPublish(v) {
		p.produced.Add(1)
	}
	return nil
}

// Produced returns the number of samples accepted by the channel.
func (p *SampleProducer) Produced() uint32 {
	return p.produced.Load()
}
