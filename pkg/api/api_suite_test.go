package api_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/api"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Suite")
}

func newTestClient(target string, opts ...api.Option) *api.Client {
	c, err := api.NewClient(target, opts...)
	Expect(err).NotTo(HaveOccurred())
	return c
}
