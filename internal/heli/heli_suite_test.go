package heli_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHeli(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Heli Suite")
}
