package middleware_test

import (
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/hospadmin/hospital-admin/internal/transport/middleware"
)

var _ = Describe("ClientIP", func() {
	request := func(remoteAddr, forwarded string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remoteAddr
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		return req
	}

	It("strips the port from an IPv4 remote address", func() {
		Expect(middleware.ClientIP(request("192.0.2.10:54321", ""))).To(Equal("192.0.2.10"))
	})

	It("unwraps a bracketed IPv6 remote address", func() {
		Expect(middleware.ClientIP(request("[::1]:8080", ""))).To(Equal("::1"))
		Expect(middleware.ClientIP(request("[2001:db8::1]:443", ""))).To(Equal("2001:db8::1"))
	})

	It("passes through an address without a port", func() {
		Expect(middleware.ClientIP(request("192.0.2.10", ""))).To(Equal("192.0.2.10"))
		Expect(middleware.ClientIP(request("2001:db8::1", ""))).To(Equal("2001:db8::1"))
	})

	It("prefers the first X-Forwarded-For hop", func() {
		req := request("10.0.0.1:80", "198.51.100.7, 10.0.0.2")
		Expect(middleware.ClientIP(req)).To(Equal("198.51.100.7"))
	})

	It("trims whitespace around a single forwarded address", func() {
		req := request("10.0.0.1:80", " 198.51.100.7 ")
		Expect(middleware.ClientIP(req)).To(Equal("198.51.100.7"))
	})
})
