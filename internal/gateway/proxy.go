// Package gateway reverse-proxies the public API surface to the
// parser and leads services.
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/insurelens/insurelens-backend/pkg/config"
	"github.com/insurelens/insurelens-backend/pkg/errors"
	pkghttp "github.com/insurelens/insurelens-backend/pkg/httputil"
	"github.com/insurelens/insurelens-backend/pkg/logger"
)

// Proxy handles reverse proxying to backend services
type Proxy struct {
	log         *logger.Logger
	parserProxy *httputil.ReverseProxy
	leadsProxy  *httputil.ReverseProxy
}

// NewProxy creates a new proxy instance
func NewProxy(cfg *config.Config, log *logger.Logger) *Proxy {
	p := &Proxy{log: log}

	p.parserProxy = p.createProxy(cfg.Services.ParserServiceURL)
	p.leadsProxy = p.createProxy(cfg.Services.LeadsServiceURL)

	return p
}

func (p *Proxy) createProxy(targetURL string) *httputil.ReverseProxy {
	target, _ := url.Parse(targetURL)

	proxy := httputil.NewSingleHostReverseProxy(target)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)
		req.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		p.log.Error().Err(err).Str("path", r.URL.Path).Msg("proxy error")
		pkghttp.Error(w, errors.Internal("service unavailable"))
	}

	return proxy
}

// ForwardToParser forwards document parsing and license date requests
// to the parser service
func (p *Proxy) ForwardToParser(w http.ResponseWriter, r *http.Request) {
	p.parserProxy.ServeHTTP(w, r)
}

// ForwardToLeads forwards lead management and Meta webhook requests
// to the leads service
func (p *Proxy) ForwardToLeads(w http.ResponseWriter, r *http.Request) {
	p.leadsProxy.ServeHTTP(w, r)
}
