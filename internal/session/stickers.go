package session

import (
	"context"

	"github.com/example/sketchpad/internal/sticker"
	"github.com/example/sketchpad/internal/tool"
)

// AddSticker registers s as a stamping tool. On error nothing changes.
func (s *Session) AddSticker(st *sticker.Sticker) (*tool.Tool, error) {
	if st != nil && s.cfg.Shadow {
		st = sticker.WithShadow(st, sticker.DefaultShadowOptions())
	}
	t, err := s.tools.AddSticker(st)
	if err != nil {
		return nil, err
	}
	if s.notifier != nil {
		s.notifier.Sticker(st.Label, st.Image)
	}
	return t, nil
}

// LoadStickerAsync runs load off the event loop and adds its result through
// the post function. A failed load leaves tools and history untouched; done
// receives the outcome either way.
func (s *Session) LoadStickerAsync(load func() (*sticker.Sticker, error), done func(*tool.Tool, error)) {
	s.LoadStickerContext(context.Background(), func(context.Context) (*sticker.Sticker, error) {
		return load()
	}, done)
}

// LoadStickerContext is LoadStickerAsync with cancellation. A load that
// finishes after ctx is done is discarded.
func (s *Session) LoadStickerContext(ctx context.Context, load func(context.Context) (*sticker.Sticker, error), done func(*tool.Tool, error)) {
	s.loadSticker(ctx, load, nil, done)
}

// loadSticker is LoadStickerContext with a naming step. prepare runs on the
// event loop after a successful load and may relabel the sticker; the func it
// returns, if any, runs only once the sticker has been added.
func (s *Session) loadSticker(ctx context.Context, load func(context.Context) (*sticker.Sticker, error), prepare func(*sticker.Sticker) func(), done func(*tool.Tool, error)) {
	finish := func(st *sticker.Sticker, err error) {
		if err == nil {
			err = ctx.Err()
		}
		var commit func()
		if err == nil && prepare != nil && st != nil {
			commit = prepare(st)
		}
		var t *tool.Tool
		if err == nil {
			t, err = s.AddSticker(st)
		}
		if err == nil && commit != nil {
			commit()
		}
		if err != nil {
			s.log.Warn("sticker load failed", "err", err)
		} else {
			s.log.Info("sticker loaded", "tool", t.Name)
		}
		if done != nil {
			done(t, err)
		}
	}
	if s.post == nil {
		st, err := load(ctx)
		finish(st, err)
		return
	}
	post := s.post
	go func() {
		st, err := load(ctx)
		post(func() { finish(st, err) })
	}()
}

// LoadStickerFile decodes path in the background. An empty label defaults
// to the file name.
func (s *Session) LoadStickerFile(path, label string, done func(*tool.Tool, error)) {
	s.LoadStickerAsync(func() (*sticker.Sticker, error) {
		return sticker.Load(path, label)
	}, done)
}
