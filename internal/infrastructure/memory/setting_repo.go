package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
)

type SettingRepository struct {
	mu       sync.RWMutex
	settings map[string]domain.Setting
}

func NewSettingRepository(seed ...*domain.Setting) *SettingRepository {
	r := &SettingRepository{settings: make(map[string]domain.Setting)}
	now := time.Now().UTC()
	for _, setting := range seed {
		s := *setting
		s.CreatedAt, s.UpdatedAt = now, now
		r.settings[s.Key] = s
	}
	return r
}

func (r *SettingRepository) ListSettings(_ context.Context) ([]*domain.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := make([]*domain.Setting, 0, len(r.settings))
	for key := range r.settings {
		s := r.settings[key]
		settings = append(settings, &s)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (r *SettingRepository) GetSetting(_ context.Context, key string) (*domain.Setting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.settings[key]
	if !ok {
		return nil, fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	return &s, nil
}

func (r *SettingRepository) CreateSetting(_ context.Context, setting *domain.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.settings[setting.Key]; ok {
		return fmt.Errorf("%w: setting %q already exists", domain.ErrValidation, setting.Key)
	}
	now := time.Now().UTC()
	setting.CreatedAt, setting.UpdatedAt = now, now
	r.settings[setting.Key] = *setting
	return nil
}

func (r *SettingRepository) UpdateSetting(_ context.Context, setting *domain.Setting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.settings[setting.Key]
	if !ok {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, setting.Key)
	}
	setting.CreatedAt = existing.CreatedAt
	setting.UpdatedAt = time.Now().UTC()
	r.settings[setting.Key] = *setting
	return nil
}

func (r *SettingRepository) DeleteSetting(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.settings[key]; !ok {
		return fmt.Errorf("%w: setting %q", domain.ErrNotFound, key)
	}
	delete(r.settings, key)
	return nil
}
