package paimon

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/segmentio/paimon-go/murmur3"
)

const (
	// DefaultInitialVarCapacity is the number of bytes reserved for the
	// variable part of rows when an encoder is created.
	DefaultInitialVarCapacity = 64

	// DefaultSeed is the seed of the Murmur3 hash applied to rows.
	DefaultSeed = murmur3.DefaultSeed
)

// The RowEncoderConfig type carries configuration options for row encoders.
//
// RowEncoderConfig implements the RowEncoderOption interface so it can be used
// directly as argument to the NewRowEncoder function when needed, for example:
//
//	encoder := paimon.NewRowEncoder(3, &paimon.RowEncoderConfig{
//		InitialVarCapacity: 256,
//	})
type RowEncoderConfig struct {
	// Number of bytes preallocated after the fixed part of rows.
	InitialVarCapacity int
	// Seed of the row hash. When the config is passed as an option, a zero
	// seed leaves the seed unchanged. HashSeed(0) selects seed zero.
	Seed uint32
}

// DefaultRowEncoderConfig returns a new RowEncoderConfig value initialized with
// the default row encoder configuration.
func DefaultRowEncoderConfig() *RowEncoderConfig {
	return &RowEncoderConfig{
		InitialVarCapacity: DefaultInitialVarCapacity,
		Seed:               DefaultSeed,
	}
}

// NewRowEncoderConfig constructs a new row encoder configuration applying the
// options passed as arguments.
//
// The function returns an non-nil error if some of the options carried invalid
// configuration values.
func NewRowEncoderConfig(options ...RowEncoderOption) (*RowEncoderConfig, error) {
	config := DefaultRowEncoderConfig()
	config.Apply(options...)
	return config, config.Validate()
}

// Apply applies the given list of options to c.
func (c *RowEncoderConfig) Apply(options ...RowEncoderOption) {
	for _, opt := range options {
		opt.ConfigureRowEncoder(c)
	}
}

// ConfigureRowEncoder applies configuration options from c to config.
func (c *RowEncoderConfig) ConfigureRowEncoder(config *RowEncoderConfig) {
	*config = RowEncoderConfig{
		InitialVarCapacity: coalesceInt(c.InitialVarCapacity, config.InitialVarCapacity),
		Seed:               coalesceUint32(c.Seed, config.Seed),
	}
}

// Validate returns a non-nil error if the configuration of c is invalid.
func (c *RowEncoderConfig) Validate() error {
	const baseName = "paimon.(*RowEncoderConfig)."
	return errorInvalidConfiguration(
		validateNonNegativeInt(baseName+"InitialVarCapacity", c.InitialVarCapacity),
	)
}

// RowEncoderOption is an interface implemented by types that carry
// configuration options for row encoders.
type RowEncoderOption interface {
	ConfigureRowEncoder(*RowEncoderConfig)
}

// InitialVarCapacity configures the number of bytes reserved for the variable
// part of rows when creating an encoder. The buffer grows on demand, this only
// avoids reallocations for rows with large string values.
//
// Defaults to 64 bytes.
type InitialVarCapacity int

func (size InitialVarCapacity) ConfigureRowEncoder(config *RowEncoderConfig) {
	config.InitialVarCapacity = int(size)
}

// HashSeed creates a configuration option which sets the seed of row hashes.
// Any seed other than the default produces hashes that are not compatible
// with Paimon bucket assignment.
//
// Zero is a valid seed.
//
// Defaults to 42.
func HashSeed(seed uint32) RowEncoderOption {
	return rowEncoderOption(func(config *RowEncoderConfig) { config.Seed = seed })
}

type rowEncoderOption func(*RowEncoderConfig)

func (opt rowEncoderOption) ConfigureRowEncoder(config *RowEncoderConfig) { opt(config) }

func coalesceInt(i1, i2 int) int {
	if i1 != 0 {
		return i1
	}
	return i2
}

func coalesceUint32(i1, i2 uint32) uint32 {
	if i1 != 0 {
		return i1
	}
	return i2
}

func validateNonNegativeInt(optionName string, optionValue int) error {
	if optionValue >= 0 {
		return nil
	}
	return errorInvalidOptionValue(optionName, optionValue)
}

func errorInvalidOptionValue(optionName string, optionValue interface{}) error {
	return errors.Wrapf(ErrInvalidConfiguration, "%s: %v", optionName, optionValue)
}

func errorInvalidConfiguration(reasons ...error) error {
	var err *invalidConfiguration

	for _, reason := range reasons {
		if reason != nil {
			if err == nil {
				err = new(invalidConfiguration)
			}
			err.reasons = append(err.reasons, reason)
		}
	}

	if err != nil {
		return err
	}

	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	errorMessage := new(strings.Builder)
	for _, reason := range err.reasons {
		errorMessage.WriteString(reason.Error())
		errorMessage.WriteString("\n")
	}
	errorString := errorMessage.String()
	if errorString != "" {
		errorString = errorString[:len(errorString)-1]
	}
	return errorString
}

func (err *invalidConfiguration) Is(target error) bool {
	return target == ErrInvalidConfiguration
}
