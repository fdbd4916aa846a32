package configdef

import (
	"fmt"

	"gopkg.in/dealancer/validate.v2"
)

type Mock struct {
	FPS        float64 `json:"fps" env:"FRAMEX_MOCK_FPS" validate:"gt=0"`
	FrameCount int     `json:"frame_count" env:"FRAMEX_MOCK_FRAME_COUNT" validate:"gte=1"`
	Decodable  int     `json:"decodable" env:"FRAMEX_MOCK_DECODABLE" validate:"gte=0"`
}

type Values struct {
	Backend      string `json:"backend" env:"FRAMEX_BACKEND" validate:"one_of=opencv,mock"`
	LoggingLevel string `json:"logging_level" env:"FRAMEX_LOGGING_LEVEL" validate:"one_of=debug,info,warn,silent"`
	Mock         Mock   `json:"mock"`
}

func (v Values) RunValidate() error {
	if err := validate.Validate(v); err != nil {
		return err
	}
	return v.Validate()
}

// Validate covers the rules which span more than one field.
func (v Values) Validate() error {
	const validationErrorHeader = "validation failed: %s"
	if v.Mock.Decodable > v.Mock.FrameCount {
		return fmt.Errorf(validationErrorHeader, "mock decodable frames cannot exceed mock frame count")
	}
	return nil
}
