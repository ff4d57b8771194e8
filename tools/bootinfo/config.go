package main

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/axiomos/axiomos/kernel/driver/video/console"
)

// envPrefix is the prefix of environment variables that override
// configuration values, e.g. AXIOMOS_COMMAND_LINE.
const envPrefix = "AXIOMOS"

// BlobConfig describes the contents of a boot information block.
type BlobConfig struct {
	CommandLine    string            `mapstructure:"command_line"`
	BootLoaderName string            `mapstructure:"boot_loader_name"`
	MemoryMap      MemoryMapConfig   `mapstructure:"memory_map"`
	ElfSections    ElfSectionsConfig `mapstructure:"elf_sections"`
}

// MemoryMapConfig describes the memory map tag.
type MemoryMapConfig struct {
	// Omit leaves the tag out of the block.
	Omit      bool         `mapstructure:"omit"`
	EntrySize uint32       `mapstructure:"entry_size"`
	Areas     []AreaConfig `mapstructure:"areas"`
}

// AreaConfig describes a single memory map entry.
type AreaConfig struct {
	Base   uint64 `mapstructure:"base"`
	Length uint64 `mapstructure:"length"`
	Type   uint32 `mapstructure:"type"`
}

// ElfSectionsConfig describes the ELF sections tag.
type ElfSectionsConfig struct {
	// Omit leaves the tag out of the block.
	Omit bool `mapstructure:"omit"`

	// Class selects 32 or 64-bit section headers.
	Class    int             `mapstructure:"class"`
	Sections []SectionConfig `mapstructure:"sections"`
}

// SectionConfig describes a single ELF section header.
type SectionConfig struct {
	NameIndex uint32 `mapstructure:"name_index"`
	Type      uint32 `mapstructure:"type"`
	Flags     uint64 `mapstructure:"flags"`
	Address   uint64 `mapstructure:"address"`
	Offset    uint64 `mapstructure:"offset"`
	Size      uint64 `mapstructure:"size"`
	AddrAlign uint64 `mapstructure:"addr_align"`
	EntSize   uint64 `mapstructure:"ent_size"`
}

// loadBlobConfig reads a block description from path. The file type is
// derived from its extension. Scalar values can be overridden through
// AXIOMOS_ prefixed environment variables.
func loadBlobConfig(path string) (BlobConfig, error) {
	v := viper.New()

	v.SetDefault("command_line", "")
	v.SetDefault("boot_loader_name", "bootinfo")
	v.SetDefault("memory_map.omit", false)
	v.SetDefault("memory_map.entry_size", 24)
	v.SetDefault("elf_sections.omit", false)
	v.SetDefault("elf_sections.class", 64)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return BlobConfig{}, fmt.Errorf("read blob config: %w", err)
	}

	var cfg BlobConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return BlobConfig{}, fmt.Errorf("unmarshal blob config: %w", err)
	}

	return cfg, cfg.validate()
}

func (cfg BlobConfig) validate() error {
	if cfg.MemoryMap.EntrySize < 24 {
		return fmt.Errorf("memory map entry size must be at least 24; got %d", cfg.MemoryMap.EntrySize)
	}

	if cfg.ElfSections.Class != 32 && cfg.ElfSections.Class != 64 {
		return fmt.Errorf("ELF class must be 32 or 64; got %d", cfg.ElfSections.Class)
	}

	return validateColorOptions(cfg.CommandLine)
}

// validateColorOptions rejects consoleFg and consoleBg values that the kernel
// would ignore at boot and suggests the closest known color name.
func validateColorOptions(cmdLine string) error {
	for _, token := range strings.Fields(cmdLine) {
		// A bare key maps to itself, as it does for the kernel.
		key, value, found := strings.Cut(token, "=")
		if !found {
			value = key
		}

		if key != "consoleFg" && key != "consoleBg" {
			continue
		}

		if _, ok := console.ColorByName(value); !ok {
			return fmt.Errorf("unknown %s color %q; did you mean %q?", key, value, nearestColorName(value))
		}
	}

	return nil
}

func nearestColorName(name string) string {
	best, bestDist := console.ColorName(console.Black), -1
	for attr := console.Black; attr <= console.White; attr++ {
		candidate := console.ColorName(attr)
		if dist := levenshtein.ComputeDistance(strings.ToLower(name), candidate); bestDist < 0 || dist < bestDist {
			best, bestDist = candidate, dist
		}
	}

	return best
}

// RenderConfig controls how a block is rendered.
type RenderConfig struct {
	Width  uint16
	Height uint16
	Screen bool
}

// loadRenderConfig merges the render command flags with AXIOMOS_ prefixed
// environment variables; explicitly set flags take precedence.
func loadRenderConfig(flags *pflag.FlagSet) (RenderConfig, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return RenderConfig{}, fmt.Errorf("bind flags: %w", err)
	}

	cfg := RenderConfig{Screen: v.GetBool("screen")}

	width, height := v.GetInt("width"), v.GetInt("height")
	if width < 1 || width > 0xffff || height < 1 || height > 0xffff {
		return RenderConfig{}, fmt.Errorf("invalid console dimensions %dx%d", width, height)
	}
	cfg.Width, cfg.Height = uint16(width), uint16(height)

	return cfg, nil
}
