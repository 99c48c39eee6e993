package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"asistencia/internal/config"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var (
	// ErrSheetsNotConfigured means at least one Google credential is missing.
	ErrSheetsNotConfigured = errors.New("sheets: credenciales no configuradas")
	ErrSheetsClosed        = errors.New("sheets: cliente cerrado")
)

// SheetsClient is the process-wide handle to the spreadsheet mirror.
// The underlying API service is built once, on first use; Close releases it.
type SheetsClient struct {
	email         string
	privateKey    string
	spreadsheetID string

	cb *CircuitBreaker

	once    sync.Once
	svc     *sheets.Service
	initErr error

	// ctx scopes the OAuth token source; cancelled on Close.
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.RWMutex
	closed bool
}

func NewSheetsClient(cfg *config.Config) *SheetsClient {
	ctx, cancel := context.WithCancel(context.Background())
	return &SheetsClient{
		email:         cfg.GoogleServiceAccountEmail,
		privateKey:    cfg.GooglePrivateKey,
		spreadsheetID: cfg.GoogleSpreadsheetID,
		cb:            NewCircuitBreaker(3, time.Minute),
		ctx:           ctx,
		cancel:        cancel,
	}
}

func (c *SheetsClient) Configured() bool {
	return c.email != "" && c.privateKey != "" && c.spreadsheetID != ""
}

// BreakerState reports the breaker guarding API calls.
func (c *SheetsClient) BreakerState() CBState { return c.cb.State() }

func (c *SheetsClient) service() (*sheets.Service, error) {
	c.once.Do(func() {
		conf := &jwt.Config{
			Email:      c.email,
			PrivateKey: []byte(c.privateKey),
			Scopes:     []string{sheets.SpreadsheetsScope},
			TokenURL:   google.JWTTokenURL,
		}
		c.svc, c.initErr = sheets.NewService(c.ctx, option.WithHTTPClient(conf.Client(c.ctx)))
		if c.initErr != nil {
			c.initErr = fmt.Errorf("sheets: init: %w", c.initErr)
		}
	})
	return c.svc, c.initErr
}

// UpdateValues overwrites the block starting at rangeA1 with rows (RAW input).
func (c *SheetsClient) UpdateValues(ctx context.Context, rangeA1 string, rows [][]interface{}) error {
	if !c.Configured() {
		return ErrSheetsNotConfigured
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrSheetsClosed
	}
	svc, err := c.service()
	if err != nil {
		return err
	}
	return c.cb.Execute(func() error {
		_, err := svc.Spreadsheets.Values.
			Update(c.spreadsheetID, rangeA1, &sheets.ValueRange{Values: rows}).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		return err
	})
}

// Close is idempotent. In-flight UpdateValues calls finish first.
func (c *SheetsClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
}
