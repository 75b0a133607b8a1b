package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// ErrInvalidConfig возвращается при некорректной конфигурации.
// Проверяется на старте: сервис с нулевым шагом слотов или неизвестной
// таймзоной не должен дожить до первого запроса.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Режимы хранилища бронирований
const (
	StorageModeMemory   = "memory"
	StorageModePostgres = "postgres"
)

// Config конфигурация сервиса
type Config struct {
	Server    Server    `toml:"server"`
	Logs      Logs      `toml:"logs"`
	Metrics   Metrics   `toml:"metrics"`
	Storage   Storage   `toml:"storage"`
	Database  Database  `toml:"database"`
	Booking   Booking   `toml:"booking"`
	Messenger Messenger `toml:"messenger"`
	Services  []Service `toml:"services"`
}

// Server настройки HTTP сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Logs настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics настройки prometheus-метрик
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Storage выбор реализации хранилища бронирований
type Storage struct {
	Mode string `toml:"mode"` // memory | postgres
}

// Database настройки подключения к postgres (режим postgres)
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN собирает строку подключения
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Booking параметры движка доступности и холдов
type Booking struct {
	Timezone               string  `toml:"timezone"`
	OpenTime               string  `toml:"open_time"`  // "11:00", локальное время площадки
	CloseTime              string  `toml:"close_time"` // "23:00"; раньше open_time = закрытие на следующий день
	SlotStepMinutes        int     `toml:"slot_step_minutes"`
	DefaultDurationMinutes int     `toml:"default_duration_minutes"`
	AllowedDurationMinutes []int   `toml:"allowed_duration_minutes"`
	PreBufferMinutes       int     `toml:"pre_buffer_minutes"`  // уборка перед бронированием
	PostBufferMinutes      int     `toml:"post_buffer_minutes"` // уборка после бронирования
	HoldMinutes            int     `toml:"hold_minutes"`
	HoldWarnBeforeMinutes  int     `toml:"hold_warn_before_minutes"`
	SweepIntervalSeconds   int     `toml:"sweep_interval_seconds"`
	VisibleFrom            string  `toml:"visible_from"` // презентационный фильтр часов, не правило доступности
	VisibleTo              string  `toml:"visible_to"`
	AdminChatIDs           []int64 `toml:"admin_chat_ids"`
}

// Messenger настройки клиента шлюза сообщений
type Messenger struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Service элемент справочника услуг (режим memory)
type Service struct {
	Name      string `toml:"name"`
	AdultOnly bool   `toml:"adult_only"`
	SortOrder int    `toml:"sort_order"`
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port must be in (0, 65535]", ErrInvalidConfig)
	}

	switch c.Storage.Mode {
	case StorageModeMemory, StorageModePostgres:
	default:
		return fmt.Errorf("%w: storage.mode must be %q or %q", ErrInvalidConfig, StorageModeMemory, StorageModePostgres)
	}

	b := c.Booking
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("%w: booking.timezone %q: %v", ErrInvalidConfig, b.Timezone, err)
	}
	if _, err := types.NewTimeStringFromString(b.OpenTime); err != nil {
		return fmt.Errorf("%w: booking.open_time: %v", ErrInvalidConfig, err)
	}
	if _, err := types.NewTimeStringFromString(b.CloseTime); err != nil {
		return fmt.Errorf("%w: booking.close_time: %v", ErrInvalidConfig, err)
	}
	if b.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if b.DefaultDurationMinutes <= 0 {
		return fmt.Errorf("%w: booking.default_duration_minutes must be positive", ErrInvalidConfig)
	}
	for _, d := range b.AllowedDurationMinutes {
		if d <= 0 {
			return fmt.Errorf("%w: booking.allowed_duration_minutes must all be positive", ErrInvalidConfig)
		}
	}
	if b.PreBufferMinutes < 0 || b.PostBufferMinutes < 0 {
		return fmt.Errorf("%w: booking buffers must be non-negative", ErrInvalidConfig)
	}
	if b.HoldMinutes <= 0 {
		return fmt.Errorf("%w: booking.hold_minutes must be positive", ErrInvalidConfig)
	}
	if b.HoldWarnBeforeMinutes < 0 {
		return fmt.Errorf("%w: booking.hold_warn_before_minutes must be non-negative", ErrInvalidConfig)
	}
	if b.HoldWarnBeforeMinutes >= b.HoldMinutes {
		return fmt.Errorf("%w: booking.hold_warn_before_minutes must be less than hold_minutes", ErrInvalidConfig)
	}
	if b.SweepIntervalSeconds <= 0 {
		return fmt.Errorf("%w: booking.sweep_interval_seconds must be positive", ErrInvalidConfig)
	}
	if b.VisibleFrom != "" {
		if _, err := types.NewTimeStringFromString(b.VisibleFrom); err != nil {
			return fmt.Errorf("%w: booking.visible_from: %v", ErrInvalidConfig, err)
		}
	}
	if b.VisibleTo != "" {
		if _, err := types.NewTimeStringFromString(b.VisibleTo); err != nil {
			return fmt.Errorf("%w: booking.visible_to: %v", ErrInvalidConfig, err)
		}
	}

	if c.Messenger.Enabled && c.Messenger.URL == "" {
		return fmt.Errorf("%w: messenger.url is required when messenger is enabled", ErrInvalidConfig)
	}
	return nil
}

// Location возвращает таймзону площадки.
// Валидность проверена в Load, поэтому паника здесь невозможна.
func (b Booking) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DomainServices конвертирует справочник из конфига в доменные услуги
func (c *Config) DomainServices() []domain.Service {
	services := make([]domain.Service, 0, len(c.Services))
	for i, s := range c.Services {
		services = append(services, domain.Service{
			ID:        int64(i + 1),
			Name:      s.Name,
			AdultOnly: s.AdultOnly,
			IsActive:  true,
			SortOrder: s.SortOrder,
		})
	}
	return services
}
