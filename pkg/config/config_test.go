package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	"github.com/forkline/forkline/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Configer config", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "config-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	writeConfig := func(data string) {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte(data), 0o600)).To(Succeed())
	}

	Describe("LoadConfig", func() {
		It("returns default config when no config file exists", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg).To(Equal(config.NewDefaultConfig()))
		})

		It("loads a valid config file and fills missing defaults", func() {
			writeConfig(`version = 0

[client]
api_target = "https://food.example.com/api"

[chat]
plain = true
`)
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Client.APITarget).To(Equal("https://food.example.com/api"))
			Expect(cfg.Client.Timeout).To(Equal("15s"))
			Expect(cfg.Chat.Plain).To(BeTrue())
		})

		It("returns error for malformed TOML", func() {
			writeConfig("[client\napi_target = ")
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("parsing config TOML")))
		})

		It("returns error for unsupported config version", func() {
			writeConfig("version = 99\n")
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			_, err = c.LoadConfig()
			Expect(err).To(MatchError(ContainSubstring("unsupported config version 99")))
		})
	})

	Describe("SaveConfig", func() {
		It("persists config to disk with owner-only permissions", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())

			cfg := config.NewDefaultConfig()
			cfg.Log.JSON = true
			Expect(c.SaveConfig(cfg)).To(Succeed())

			info, err := os.Stat(c.GetTarget())
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			loaded, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Log.JSON).To(BeTrue())
		})

		It("returns error for nil config", func() {
			c, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.SaveConfig(nil)).To(MatchError("cannot save nil config"))
		})
	})

	Describe("SetConfigValue / GetConfigValue", func() {
		var c *config.Configer

		BeforeEach(func() {
			var err error
			c, err = config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
		})

		It("sets and gets client.api_target", func() {
			Expect(c.SetConfigValue("client.api_target", "http://10.0.0.2:8000/api")).To(Succeed())

			val, err := c.GetConfigValue("client.api_target")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("http://10.0.0.2:8000/api"))
		})

		It("validates client.timeout", func() {
			Expect(c.SetConfigValue("client.timeout", "soon")).To(MatchError(ContainSubstring("invalid value for client.timeout")))
			Expect(c.SetConfigValue("client.timeout", "30s")).To(Succeed())

			cfg, err := c.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			d, err := cfg.ClientTimeout()
			Expect(err).NotTo(HaveOccurred())
			Expect(d).To(Equal(30 * time.Second))
		})

		It("validates bool keys", func() {
			Expect(c.SetConfigValue("log.pretty", "sure")).To(MatchError(ContainSubstring("invalid value for log.pretty")))
			Expect(c.SetConfigValue("log.pretty", "true")).To(Succeed())

			val, err := c.GetConfigValue("log.pretty")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("true"))
		})

		It("preserves existing values when setting a new key", func() {
			Expect(c.SetConfigValue("client.user_agent", "kiosk/1")).To(Succeed())
			Expect(c.SetConfigValue("chat.plain", "true")).To(Succeed())

			val, err := c.GetConfigValue("client.user_agent")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("kiosk/1"))
		})

		It("returns default values when no config file exists", func() {
			val, err := c.GetConfigValue("client.timeout")
			Expect(err).NotTo(HaveOccurred())
			Expect(val).To(Equal("15s"))
		})

		It("returns error for unknown key", func() {
			Expect(c.SetConfigValue("proxy.listen", ":8080")).To(MatchError(ContainSubstring("unknown config key")))
			_, err := c.GetConfigValue("proxy.listen")
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})
	})

	Describe("ValidConfigKeys", func() {
		It("returns all keys in section order", func() {
			Expect(config.ValidConfigKeys()).To(Equal([]string{
				"client.api_target",
				"client.timeout",
				"client.user_agent",
				"chat.plain",
				"log.json",
				"log.pretty",
			}))
			for _, k := range config.ValidConfigKeys() {
				Expect(config.IsValidConfigKey(k)).To(BeTrue())
			}
		})
	})
})

var _ = Describe("InitViper", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "viper-test-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, tmpDir)
	})

	It("applies defaults without a config file", func() {
		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(config.FromViper(v)).To(Equal(config.NewDefaultConfig()))
	})

	It("lets env override the config file", func() {
		Expect(os.WriteFile(filepath.Join(tmpDir, "config.toml"),
			[]byte("[client]\napi_target = \"http://file/api\"\ntimeout = \"5s\"\n"), 0o600)).To(Succeed())
		GinkgoT().Setenv("FORKLINE_CLIENT_API_TARGET", "http://env/api")

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		cfg := config.FromViper(v)
		Expect(cfg.Client.APITarget).To(Equal("http://env/api"))
		Expect(cfg.Client.Timeout).To(Equal("5s"))
	})

	It("lets an explicitly set flag override env", func() {
		GinkgoT().Setenv("FORKLINE_CLIENT_API_TARGET", "http://env/api")

		var target string
		cmd := &cobra.Command{Use: "test"}
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &target)
		Expect(cmd.ParseFlags([]string{"--api-target", "http://flag/api"})).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagAPITarget})

		Expect(v.GetString("client.api_target")).To(Equal("http://flag/api"))
	})

	It("keeps env when the flag was not set", func() {
		GinkgoT().Setenv("FORKLINE_CLIENT_API_TARGET", "http://env/api")

		var target string
		cmd := &cobra.Command{Use: "test"}
		config.AddStringFlag(cmd, config.ClientFlags, config.FlagAPITarget, &target)
		Expect(cmd.ParseFlags(nil)).To(Succeed())

		v, err := config.InitViper(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		config.BindRegisteredFlags(v, cmd, config.ClientFlags, []string{config.FlagAPITarget})

		Expect(v.GetString("client.api_target")).To(Equal("http://env/api"))
	})
})
