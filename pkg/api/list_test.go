package api_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/forkline/forkline/pkg/api"
)

var _ = Describe("List", func() {
	DescribeTable("decodes every list shape",
		func(body string, ids []int64, total int) {
			var l api.List[api.Category]
			Expect(json.Unmarshal([]byte(body), &l)).To(Succeed())

			got := make([]int64, 0, len(l.Items))
			for _, c := range l.Items {
				got = append(got, c.ID)
			}
			Expect(got).To(Equal(ids))
			Expect(l.Total).To(Equal(total))
		},
		Entry("bare array", `[{"id":1},{"id":2}]`, []int64{1, 2}, 2),
		Entry("items envelope", `{"items":[{"id":3}],"total":40}`, []int64{3}, 40),
		Entry("data envelope", `{"data":[{"id":4},{"id":5}]}`, []int64{4, 5}, 2),
		Entry("null", `null`, []int64{}, 0),
		Entry("empty envelope", `{}`, []int64{}, 0),
	)

	It("rejects non-list values", func() {
		var l api.List[api.Category]
		Expect(json.Unmarshal([]byte(`"nope"`), &l)).NotTo(Succeed())
	})
})

var _ = Describe("TokenResponse", func() {
	DescribeTable("finds the token wherever the backend put it",
		func(body, token string) {
			var t api.TokenResponse
			Expect(json.Unmarshal([]byte(body), &t)).To(Succeed())
			Expect(t.AccessToken).To(Equal(token))
		},
		Entry("access_token", `{"user_id":1,"access_token":"a","token_type":"bearer"}`, "a"),
		Entry("token", `{"token":"b"}`, "b"),
		Entry("data.access_token", `{"data":{"access_token":"c"}}`, "c"),
		Entry("data.token", `{"data":{"token":"d"}}`, "d"),
		Entry("none", `{"user_id":1}`, ""),
	)

	It("prefers the top-level token", func() {
		var t api.TokenResponse
		Expect(json.Unmarshal([]byte(`{"access_token":"top","data":{"token":"nested","user_id":9}}`), &t)).To(Succeed())
		Expect(t.AccessToken).To(Equal("top"))
		Expect(t.UserID).To(BeZero())
	})
})
