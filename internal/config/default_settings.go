package config

import "github.com/tauraamui/framextract/pkg/configdef"

type defaultSettingKey uint

const (
	BACKEND        defaultSettingKey = 0x0
	LOGGINGLEVEL   defaultSettingKey = 0x1
	MOCKFPS        defaultSettingKey = 0x2
	MOCKFRAMECOUNT defaultSettingKey = 0x3
)

var defaultSettings = map[defaultSettingKey]interface{}{
	BACKEND:        "opencv",
	LOGGINGLEVEL:   "warn",
	MOCKFPS:        30.0,
	MOCKFRAMECOUNT: 300,
}

func defaultValues() configdef.Values {
	return configdef.Values{
		Backend:      defaultSettings[BACKEND].(string),
		LoggingLevel: defaultSettings[LOGGINGLEVEL].(string),
		Mock: configdef.Mock{
			FPS:        defaultSettings[MOCKFPS].(float64),
			FrameCount: defaultSettings[MOCKFRAMECOUNT].(int),
		},
	}
}
