package analyzer

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"
)

var errUnavailable = errors.New("model unavailable")

type fakeClassifier struct {
	verdict Verdict
	err     error
	delay   time.Duration
	panics  bool
	calls   atomic.Int32
}

func (f *fakeClassifier) Classify(ctx context.Context, _ string) (Verdict, error) {
	f.calls.Add(1)
	if f.panics {
		panic("classifier exploded")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.verdict, f.err
}

type fakeEnhancer struct {
	terms  []string
	err    error
	delay  time.Duration
	panics bool
	calls  atomic.Int32
	// sawCancelled records whether the context was already done when called
	sawCancelled atomic.Bool
}

func (f *fakeEnhancer) EnhanceKeywords(ctx context.Context, _ string, base []string) ([]string, error) {
	f.calls.Add(1)
	if ctx.Err() != nil {
		f.sawCancelled.Store(true)
		return nil, ctx.Err()
	}
	if f.panics {
		panic("enhancer exploded")
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.terms, nil
}

// articleText is a markdown post with one h1, three h2 and two h3 headings
const articleText = `# Practical Guide to Go Concurrency

Go makes concurrency approachable. Goroutines are cheap, and channels let them talk safely. This guide walks through the patterns that teams use every day.

## Why Goroutines Matter

A goroutine is a function running alongside others. Starting one costs a few kilobytes of memory. You can run thousands of goroutines on a laptop without trouble.

### Scheduling Basics

The runtime scheduler maps goroutines onto system threads. It parks goroutines that wait and wakes them when work arrives. Most programs never need to tune it.

## Channels and Pipelines

Channels carry values between goroutines. A pipeline chains stages, and each stage reads from one channel and writes to the next. Closing a channel tells readers that no more values will come.

### Fan Out and Fan In

Fan out starts several workers that read from one channel. Fan in merges their results into a single channel. Together they spread work across cores and collect the answers.

## Common Mistakes

Forgetting to close a channel can leave readers waiting forever. Sharing memory without a mutex leads to data races. The race detector finds many of these bugs during testing, so run it in your pipeline.`

func repeatRunes(r string, n int) string {
	return strings.Repeat(r, n)
}
