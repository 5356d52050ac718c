package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
)

// OriginChecker 浏览器来源白名单。"*" 放行全部；没有 Origin 头的终端客户端总是放行
type OriginChecker struct {
	allowAll bool
	allowed  map[string]struct{}
}

func NewOriginChecker(origins []string) *OriginChecker {
	oc := &OriginChecker{allowed: make(map[string]struct{}, len(origins))}
	for _, o := range origins {
		if o == "*" {
			oc.allowAll = true
		} else {
			oc.allowed[strings.ToLower(o)] = struct{}{}
		}
	}
	return oc
}

func (oc *OriginChecker) Check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if oc.allowAll || origin == "" {
		return true
	}
	_, ok := oc.allowed[strings.ToLower(origin)]
	return ok
}

// IPFilter 黑名单总是拒绝；白名单非空时只放行名单内的 IP
type IPFilter struct {
	mu    sync.RWMutex
	white map[string]struct{}
	black map[string]struct{}
}

func NewIPFilter() *IPFilter {
	return &IPFilter{white: map[string]struct{}{}, black: map[string]struct{}{}}
}

func (f *IPFilter) edit(fn func()) {
	f.mu.Lock()
	fn()
	f.mu.Unlock()
}

func (f *IPFilter) AddToWhitelist(ip string) { f.edit(func() { f.white[ip] = struct{}{} }) }
func (f *IPFilter) AddToBlacklist(ip string) { f.edit(func() { f.black[ip] = struct{}{} }) }
func (f *IPFilter) RemoveFromBlacklist(ip string) { f.edit(func() { delete(f.black, ip) }) }

func (f *IPFilter) IsAllowed(ip string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if _, banned := f.black[ip]; banned {
		return false
	}
	if len(f.white) == 0 {
		return true
	}
	_, ok := f.white[ip]
	return ok
}

// GetClientIP 依次看 X-Forwarded-For 第一跳、X-Real-IP、RemoteAddr
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
