package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// 环境变量（也可以写在 .env 中）
const (
	EnvPort     = "VISITAS_PORT"
	EnvDataDir  = "VISITAS_DATA_DIR"
	EnvLogLevel = "VISITAS_LOG_LEVEL"
)

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Log    LogConfig    `toml:"log"`
	Import ImportConfig `toml:"import"`
	Upload UploadConfig `toml:"upload"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir string `toml:"data_dir"` // 相对路径基于可执行文件目录
	DBName  string `toml:"db_name"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `toml:"level"`  // debug/info/warn/error
	Format string `toml:"format"` // json/console，为空时开发模式用 console
}

// ImportConfig 表格导入配置
type ImportConfig struct {
	TimeoutSeconds int `toml:"timeout_seconds"`
	Concurrency    int `toml:"concurrency"` // 0 表示按 CPU 数
}

// UploadConfig 上传配置
type UploadConfig struct {
	MaxBytes int64 `toml:"max_bytes"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	Path          string // 实际读取的配置文件，未找到时为空
	PortSpecified bool
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20262,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
			DBName:  "visitas.db",
		},
		Log: LogConfig{
			Level: "info",
		},
		Import: ImportConfig{
			TimeoutSeconds: 60,
		},
		Upload: UploadConfig{
			MaxBytes: 20 << 20,
		},
	}
}

// ImportTimeout 导入超时
func (c *AppConfig) ImportTimeout() time.Duration {
	if c.Import.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Import.TimeoutSeconds) * time.Second
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrCwd() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// LoadConfigWithInfo 从可执行文件目录加载 .env 与 config.toml
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(exeDirOrCwd())
}

// LoadConfigFrom 从指定目录加载配置
// 优先级：默认值 < config.toml < 环境变量（含 .env）；命令行参数由调用方最后覆盖
func LoadConfigFrom(dir string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	// .env 不会覆盖已存在的环境变量
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !os.IsNotExist(err) {
		return nil, info, err
	}

	configPath := filepath.Join(dir, "config.toml")
	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.Path = configPath
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, err
		}
	case os.IsNotExist(err):
		// 配置文件不存在，使用默认配置
	default:
		return nil, info, err
	}

	if err := applyEnv(config, &info); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func applyEnv(config *AppConfig, info *LoadConfigInfo) error {
	if v := strings.TrimSpace(os.Getenv(EnvPort)); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return &EnvError{Key: EnvPort, Value: v, Err: err}
		}
		config.Server.Port = port
		info.PortSpecified = true
	}
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		config.Data.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		config.Log.Level = v
	}
	return nil
}

// EnvError 环境变量格式错误
type EnvError struct {
	Key   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return "invalid " + e.Key + "=" + strconv.Quote(e.Value) + ": " + e.Err.Error()
}

func (e *EnvError) Unwrap() error { return e.Err }

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下
func LoadConfig() (*AppConfig, error) {
	config, _, err := LoadConfigWithInfo()
	return config, err
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(exeDirOrCwd(), "config.toml"), data, 0644)
}

// ResolveDataDir 数据目录的绝对（或相对于可执行文件的）路径
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrCwd(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// 导出文件暂存目录
	if err := os.MkdirAll(filepath.Join(dataDir, "exports"), 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// DBPath 数据库文件路径
func DBPath(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), config.Data.DBName)
}

// ExportDir 导出文件暂存目录
func ExportDir(config *AppConfig) string {
	return filepath.Join(ResolveDataDir(config), "exports")
}
