package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/snake-replay/internal/games/snake/snaketest"
	"github.com/vovakirdan/snake-replay/internal/replay"
)

func TestFollowReplay(t *testing.T) {
	run, _ := snaketest.MustChase(t, 2).Run()

	d, err := replay.New(run)
	if err != nil {
		t.Fatalf("replay.New() error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out bytes.Buffer
	res, err := followReplay(ctx, &out, d, time.Millisecond, false)
	if err != nil {
		t.Fatalf("followReplay() error: %v", err)
	}
	if !res.Finished || res.Err != nil {
		t.Fatalf("Expected clean finish, got %+v", res)
	}
	if res.Score != run.Score {
		t.Errorf("Replayed score %d, expected %d", res.Score, run.Score)
	}

	n := len(run.MoveLog)
	last := fmt.Sprintf("move %d/%d  score %d", n, n, run.Score)
	if !strings.Contains(out.String(), last) {
		t.Errorf("Output should end with the final frame %q", last)
	}
	if strings.Contains(out.String(), "\x1b[") {
		t.Error("Frames should not carry escape codes without redraw")
	}
}

func TestFollowReplayCancelled(t *testing.T) {
	run, _ := snaketest.MustChase(t, 2).Run()

	d, err := replay.New(run)
	if err != nil {
		t.Fatalf("replay.New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	res, err := followReplay(ctx, &out, d, time.Hour, true)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if res.Finished {
		t.Error("Cancelled replay should not report a finish")
	}
	if !strings.HasPrefix(out.String(), "\x1b[H\x1b[2J") {
		t.Error("Redraw frames should start by clearing the terminal")
	}
}
