package loader

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"

	"github.com/Carmen-Shannon/oxy-ironman/engine/light"
)

// radianceMagic starts every Radiance RGBE file ("#?RADIANCE" or "#?RGBE").
var radianceMagic = []byte("#?")

func (l *loader) loadEnvironment(ctx context.Context, url string) (*light.EnvironmentMap, error) {
	start := time.Now()
	var (
		body io.ReadCloser
		err  error
	)
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		body, err = l.fetch(ctx, url)
	} else {
		body, err = os.Open(strings.TrimPrefix(url, "file://"))
	}
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", url, err)
	}
	defer body.Close()

	env, err := decodeEnvironment(url, body)
	if err != nil {
		return nil, fmt.Errorf("environment %s: %w", url, err)
	}
	slog.Info("Environment loaded",
		"url", url,
		"size", fmt.Sprintf("%dx%d", env.Width, env.Height),
		"texture", humanize.IBytes(uint64(env.Width*env.Height*light.BytesPerTexelRGBA16F)),
		"elapsed", time.Since(start),
	)
	return env, nil
}

func (l *loader) fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, HTTPError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return resp.Body, nil
}

// decodeEnvironment decodes a Radiance RGBE stream into an EnvironmentMap.
func decodeEnvironment(name string, r io.Reader) (*light.EnvironmentMap, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(radianceMagic))
	if err != nil || !bytes.Equal(head, radianceMagic) {
		return nil, ErrNotHDR
	}
	img, err := rgbe.Decode(br)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("decode rgbe: %w", err)
	}
	if _, ok := img.(hdr.Image); !ok {
		return nil, ErrNotHDR
	}
	return light.FromImage(name, img)
}
