package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RetryPolicy политика повторов запросов к каталогу.
// Повторяются только сетевые ошибки и ответы 5xx.
type RetryPolicy struct {
	MaxAttempts     uint          // всего попыток, включая первую
	InitialInterval time.Duration // пауза перед первым повтором, дальше растёт экспоненциально
	MaxInterval     time.Duration
}

// DefaultRetryPolicy 3 попытки, 100ms -> 200ms
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	return b
}

// Client клиент каталога бизнесов, услуг и пакетов
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, retry RetryPolicy, log Logger) *Client {
	if retry.MaxAttempts == 0 {
		retry.MaxAttempts = 1
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: retry,
		log:   log,
	}
}

// GetBusiness получает бизнес по ID
func (c *Client) GetBusiness(ctx context.Context, businessID int64) (*Business, error) {
	var business Business
	path := fmt.Sprintf("/internal/businesses/%d", businessID)
	if err := c.getJSON(ctx, path, ErrBusinessNotFound, &business); err != nil {
		return nil, err
	}
	return &business, nil
}

// GetService получает услугу бизнеса
func (c *Client) GetService(ctx context.Context, businessID, serviceID int64) (*Service, error) {
	var service Service
	path := fmt.Sprintf("/internal/businesses/%d/services/%d", businessID, serviceID)
	if err := c.getJSON(ctx, path, ErrServiceNotFound, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// GetPackage получает пакет услуг бизнеса
func (c *Client) GetPackage(ctx context.Context, businessID, packageID int64) (*Package, error) {
	var pkg Package
	path := fmt.Sprintf("/internal/businesses/%d/packages/%d", businessID, packageID)
	if err := c.getJSON(ctx, path, ErrPackageNotFound, &pkg); err != nil {
		return nil, err
	}
	return &pkg, nil
}

func (c *Client) getJSON(ctx context.Context, path string, notFound error, out interface{}) error {
	url := c.baseURL + path

	operation := func() (struct{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: failed to create request: %v", ErrInternal, err))
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return struct{}{}, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
		}
		defer resp.Body.Close()

		// Обработка статус-кодов
		switch {
		case resp.StatusCode == http.StatusOK:
			// Продолжаем обработку
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, backoff.Permanent(notFound)
		case resp.StatusCode >= http.StatusInternalServerError:
			return struct{}{}, fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
		default:
			body, _ := io.ReadAll(resp.Body)
			return struct{}{}, backoff.Permanent(
				fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body)))
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err))
		}
		return struct{}{}, nil
	}

	notify := func(err error, next time.Duration) {
		c.log.Warn("catalog: GET %s failed, retrying in %s: %v", path, next, err)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.retry.backOff()),
		backoff.WithMaxTries(c.retry.MaxAttempts),
		backoff.WithNotify(notify),
	)
	return err
}
