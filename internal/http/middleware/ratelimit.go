package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyFunc extrai a chave de throttling da requisição. ok=false libera a requisição.
type KeyFunc func(r *http.Request) (key string, ok bool)

// Throttle guarda um token bucket por chave. Buckets ociosos são descartados
// em varreduras espaçadas de idle.
type Throttle struct {
	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu      sync.Mutex
	buckets map[string]*bucket
	swept   time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewThrottle cria o throttle com rps requisições por segundo e rajada burst.
func NewThrottle(rps float64, burst int) *Throttle {
	if burst < 1 {
		burst = 1
	}
	return &Throttle{
		limit:   rate.Limit(rps),
		burst:   burst,
		idle:    10 * time.Minute,
		now:     time.Now,
		buckets: make(map[string]*bucket),
	}
}

// reserve consome um token da chave e devolve quanto falta para o próximo.
func (t *Throttle) reserve(key string) (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	if now.Sub(t.swept) > t.idle {
		for k, b := range t.buckets {
			if now.Sub(b.lastSeen) > t.idle {
				delete(t.buckets, k)
			}
		}
		t.swept = now
	}

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.buckets[key] = b
	}
	b.lastSeen = now

	if b.limiter.AllowN(now, 1) {
		return 0, true
	}
	r := b.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return wait, false
}

// Middleware aplica o throttle usando a chave devolvida por key.
func (t *Throttle) Middleware(key KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k, ok := key(r)
			if !ok || k == "" {
				next.ServeHTTP(w, r)
				return
			}

			wait, allowed := t.reserve(k)
			if !allowed {
				w.Header().Set("Retry-After", retryAfter(wait))
				writeError(w, http.StatusTooManyRequests, "RATE_LIMIT", "Limite de requisições excedido")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ByClientIP identifica clientes anônimos das rotas de mídia.
func ByClientIP(r *http.Request) (string, bool) {
	return clientIP(r), true
}

// BySubject identifica administradores autenticados. Exige Auth antes na cadeia.
func BySubject(r *http.Request) (string, bool) {
	subject := GetSubject(r.Context())
	return subject, subject != ""
}

func retryAfter(wait time.Duration) string {
	secs := int(math.Ceil(wait.Seconds()))
	if secs < 1 || wait == rate.InfDuration {
		secs = 1
	}
	return strconv.Itoa(secs)
}

func clientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
