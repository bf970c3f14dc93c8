package node_test

import (
	"net"

	"tenant-registry-server/internal/infra/node"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Node", func() {
	ginkgo.Context("GetNodeInfo", func() {
		ginkgo.It("returns node information with all fields populated", func() {
			info := node.GetNodeInfo()

			gomega.Expect(info.ID).NotTo(gomega.BeEmpty())
			gomega.Expect(info.Version).To(gomega.Equal(node.Version))
			gomega.Expect(info.CommitHash).To(gomega.Equal(node.CommitHash))
			gomega.Expect(net.ParseIP(info.IPAddress)).NotTo(gomega.BeNil())
		})

		ginkgo.It("returns a stable node id across calls", func() {
			first := node.GetNodeInfo()
			second := node.GetNodeInfo()

			gomega.Expect(second.ID).To(gomega.Equal(first.ID))
		})
	})
})
