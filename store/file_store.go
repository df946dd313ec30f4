package store

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/taskboard/taskboard/models"
	"github.com/taskboard/taskboard/types"
	yaml "gopkg.in/yaml.v3"
)

const (
	defaultDataFile   = "tasks.json"
	dataFileKey       = "dataFile"
	dataFileFormatKey = "dataFileFormat"
	defaultDataFormat = "json"
	formatJSON        = "json"
	formatYAML        = "yaml"
	formatTOML        = "toml"
	checksumSuffix    = ".checksum"
)

// FileClient implements the Client interface with a file backend. It
// supports JSON, YAML and TOML formats, verifies a checksum sidecar on
// load, and writes through a temp-file rename so readers never observe a
// torn file. When backed by the real filesystem it additionally holds a
// cross-process file lock around every operation.
type FileClient struct {
	fs       afero.Fs
	filePath string
	tasks    map[string]models.Task
	order    []string // task ids in creation order
	flk      *flock.Flock
	format   string
}

// NewFileClient creates a FileClient on the operating system filesystem.
// Initialize must be called before any other operation.
func NewFileClient() *FileClient {
	return NewFileClientWithFs(afero.NewOsFs())
}

// NewFileClientWithFs creates a FileClient on the given filesystem. Use
// afero.NewMemMapFs() in tests; file locking is skipped for anything other
// than the real filesystem.
func NewFileClientWithFs(fsys afero.Fs) *FileClient {
	return &FileClient{
		fs:    fsys,
		tasks: make(map[string]models.Task),
	}
}

// Initialize configures the FileClient. It expects a 'dataFile' key in the
// config map with the path to the data file, defaulting to 'tasks.json',
// and an optional 'dataFileFormat' of json, yaml or toml. Existing tasks
// are loaded from the file if it exists.
func (s *FileClient) Initialize(config map[string]string) error {
	if val, ok := config[dataFileKey]; ok && val != "" {
		s.filePath = val
	} else {
		s.filePath = defaultDataFile
	}

	if val, ok := config[dataFileFormatKey]; ok && val != "" {
		formatLower := strings.ToLower(val)
		switch formatLower {
		case formatJSON, formatYAML, formatTOML:
			s.format = formatLower
		default:
			return fmt.Errorf("unsupported dataFileFormat: %s. Supported formats are json, yaml, toml", val)
		}
	} else {
		s.format = defaultDataFormat
	}

	if s.filePath == defaultDataFile && s.format != formatJSON {
		ext := filepath.Ext(s.filePath)
		s.filePath = strings.TrimSuffix(s.filePath, ext) + "." + s.format
	}

	dir := filepath.Dir(s.filePath)
	if dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	// flock operates on real paths only; in-memory filesystems are
	// single-process by definition.
	if _, ok := s.fs.(*afero.OsFs); ok {
		s.flk = flock.New(s.filePath)
	}

	if err := s.lock(); err != nil {
		return fmt.Errorf("failed to acquire initial lock for %s: %w", s.filePath, err)
	}
	defer s.unlock()

	s.tasks = make(map[string]models.Task)
	return s.loadInternal()
}

func (s *FileClient) lock() error {
	if s.flk == nil {
		return nil
	}
	return s.flk.Lock()
}

func (s *FileClient) unlock() {
	if s.flk != nil {
		_ = s.flk.Unlock()
	}
}

// calculateChecksum computes the SHA256 checksum of the given data.
func calculateChecksum(data []byte) string {
	hasher := sha256.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// loadInternal reads tasks from the file, verifies the checksum sidecar,
// and unmarshals. The caller holds the file lock.
func (s *FileClient) loadInternal() error {
	checksumFilePath := s.filePath + checksumSuffix

	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.tasks = make(map[string]models.Task)
			s.order = nil
			_ = s.fs.Remove(checksumFilePath)
			if err := afero.WriteFile(s.fs, s.filePath, []byte{}, 0o644); err != nil {
				return fmt.Errorf("failed to create data file %s: %w", s.filePath, err)
			}
			_ = afero.WriteFile(s.fs, checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
			return nil
		}
		return fmt.Errorf("failed to read data file %s: %w", s.filePath, err)
	}

	if exists, _ := afero.Exists(s.fs, checksumFilePath); exists {
		expectedChecksumBytes, readErr := afero.ReadFile(s.fs, checksumFilePath)
		if readErr != nil {
			return fmt.Errorf("failed to read checksum file %s: %w", checksumFilePath, readErr)
		}
		expectedChecksum := strings.TrimSpace(string(expectedChecksumBytes))
		if actual := calculateChecksum(data); actual != expectedChecksum {
			return fmt.Errorf("checksum mismatch for %s - expected %s, got %s - file is corrupt or tampered", s.filePath, expectedChecksum, actual)
		}
	}
	// No checksum file means data from before checksums; allow loading it
	// and let the next save create one.

	if len(data) == 0 {
		_ = afero.WriteFile(s.fs, checksumFilePath, []byte(calculateChecksum([]byte{})), 0o644)
		s.tasks = make(map[string]models.Task)
		s.order = nil
		return nil
	}

	var taskList models.TaskList
	switch s.format {
	case formatJSON:
		if err := json.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal JSON from %s: %w", s.filePath, err)
		}
	case formatYAML:
		if err := yaml.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal YAML from %s: %w", s.filePath, err)
		}
	case formatTOML:
		if err := toml.Unmarshal(data, &taskList); err != nil {
			return fmt.Errorf("failed to unmarshal TOML from %s: %w", s.filePath, err)
		}
	default:
		return fmt.Errorf("unsupported data format for loading: %s", s.format)
	}

	s.tasks = make(map[string]models.Task, len(taskList.Tasks))
	s.order = make([]string, 0, len(taskList.Tasks))
	for _, task := range taskList.Tasks {
		s.tasks[task.ID] = task
		s.order = append(s.order, task.ID)
	}
	return nil
}

// saveInternal writes tasks to the data file, then writes its checksum.
// The caller holds the file lock.
func (s *FileClient) saveInternal() error {
	taskList := models.TaskList{
		Tasks:      s.orderedTasks(),
		TotalCount: len(s.tasks),
	}

	var marshaledData []byte
	var err error

	switch s.format {
	case formatJSON:
		marshaledData, err = json.MarshalIndent(taskList, "", "  ")
	case formatYAML:
		marshaledData, err = yaml.Marshal(taskList)
	case formatTOML:
		buf := new(bytes.Buffer)
		if encodeErr := toml.NewEncoder(buf).Encode(taskList); encodeErr == nil {
			marshaledData = buf.Bytes()
		} else {
			err = fmt.Errorf("failed to marshal TOML: %w", encodeErr)
		}
	default:
		return fmt.Errorf("unsupported data format for saving: %s", s.format)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal tasks to %s: %w", s.format, err)
	}

	tempFilePath := s.filePath + ".tmp"
	checksumFilePath := s.filePath + checksumSuffix
	tempChecksumFilePath := checksumFilePath + ".tmp"

	defer func() { _ = s.fs.Remove(tempFilePath) }()
	defer func() { _ = s.fs.Remove(tempChecksumFilePath) }()

	if err := afero.WriteFile(s.fs, tempFilePath, marshaledData, 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary data file %s: %w", tempFilePath, err)
	}

	actualChecksum := calculateChecksum(marshaledData)
	if err := afero.WriteFile(s.fs, tempChecksumFilePath, []byte(actualChecksum), 0o644); err != nil {
		return fmt.Errorf("failed to write to temporary checksum file %s: %w", tempChecksumFilePath, err)
	}

	if err := s.fs.Rename(tempFilePath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temporary data file %s to %s: %w", tempFilePath, s.filePath, err)
	}
	if err := s.fs.Rename(tempChecksumFilePath, checksumFilePath); err != nil {
		return fmt.Errorf("data file %s updated, but failed to update checksum file %s: %w - store may be inconsistent", s.filePath, checksumFilePath, err)
	}

	return nil
}

// orderedTasks returns the tasks in creation order.
func (s *FileClient) orderedTasks() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, id := range s.order {
		if task, ok := s.tasks[id]; ok {
			out = append(out, task)
		}
	}
	return out
}

// generateID creates a new universally unique identifier string.
func generateID() string {
	return uuid.NewString()
}

// FetchTasks retrieves every task owned by ownerID in creation order.
func (s *FileClient) FetchTasks(ctx context.Context, ownerID string) ([]models.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.lock(); err != nil {
		return nil, &types.RemoteError{Op: "fetch", Err: err}
	}
	defer s.unlock()

	if err := s.loadInternal(); err != nil {
		return nil, &types.RemoteError{Op: "fetch", Err: err}
	}

	owned := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.orderedTasks() {
		if task.UserID == ownerID {
			owned = append(owned, task)
		}
	}
	return owned, nil
}

// CreateTask stores a new task. The repository assigns the id, stamps the
// timestamps and records the first activity entry.
func (s *FileClient) CreateTask(ctx context.Context, draft models.Task) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	if err := s.lock(); err != nil {
		return models.Task{}, &types.RemoteError{Op: "create", Err: err}
	}
	defer s.unlock()

	// Reload state from disk so concurrent processes' writes are seen.
	if err := s.loadInternal(); err != nil {
		return models.Task{}, &types.RemoteError{Op: "create", Err: err}
	}

	if draft.ID != "" {
		return models.Task{}, &types.ValidationError{Field: "id", Reason: "must be empty; the repository assigns ids"}
	}
	draft.ID = generateID()

	now := time.Now().UTC()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if !draft.Status.Valid() {
		draft.Status = models.StatusTodo
	}
	draft.Activities = append(draft.Activities, models.Activity{
		Kind: models.ActivityCreated,
		Date: now,
		By:   draft.CreatedBy,
	})

	if err := models.ValidateStruct(draft); err != nil {
		return models.Task{}, &types.ValidationError{Reason: "new task failed validation", Err: err}
	}

	s.tasks[draft.ID] = draft
	s.order = append(s.order, draft.ID)

	if err := s.saveInternal(); err != nil {
		// Reloading from the unchanged file is the simplest rollback.
		_ = s.loadInternal()
		return models.Task{}, &types.RemoteError{Op: "create", Err: err}
	}

	return draft, nil
}

// UpdateTask merges the given partial fields into an existing task. A
// status change appends the matching activity entry to the task's history.
func (s *FileClient) UpdateTask(ctx context.Context, id string, updates map[string]interface{}) (models.Task, error) {
	if err := ctx.Err(); err != nil {
		return models.Task{}, err
	}
	if err := s.lock(); err != nil {
		return models.Task{}, &types.RemoteError{Op: "update", Err: err}
	}
	defer s.unlock()

	if err := s.loadInternal(); err != nil {
		return models.Task{}, &types.RemoteError{Op: "update", Err: err}
	}

	task, exists := s.tasks[id]
	if !exists {
		return models.Task{}, &types.NotFoundError{ID: id}
	}
	originalTask := task
	previousStatus := task.Status

	if err := models.ApplyFields(&task, updates); err != nil {
		return models.Task{}, &types.ValidationError{Reason: "update rejected", Err: err}
	}

	now := time.Now().UTC()
	task.UpdatedAt = now
	if kind, changed := models.ActivityForTransition(previousStatus, task.Status); changed {
		task.Activities = append(task.Activities, models.Activity{
			Kind: kind,
			Date: now,
			By:   task.UserID,
		})
	}

	if err := models.ValidateStruct(task); err != nil {
		return models.Task{}, &types.ValidationError{Reason: "updated task failed validation", Err: err}
	}

	s.tasks[id] = task

	if err := s.saveInternal(); err != nil {
		s.tasks[id] = originalTask
		return models.Task{}, &types.RemoteError{Op: "update", Err: err}
	}

	return task, nil
}

// DeleteTask removes a task by id. A missing id yields *types.NotFoundError
// so callers can decide whether "already gone" counts as success.
func (s *FileClient) DeleteTask(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.lock(); err != nil {
		return &types.RemoteError{Op: "delete", Err: err}
	}
	defer s.unlock()

	if err := s.loadInternal(); err != nil {
		return &types.RemoteError{Op: "delete", Err: err}
	}

	if _, exists := s.tasks[id]; !exists {
		return &types.NotFoundError{ID: id}
	}

	delete(s.tasks, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	if err := s.saveInternal(); err != nil {
		_ = s.loadInternal()
		return &types.RemoteError{Op: "delete", Err: err}
	}

	return nil
}

// Close releases the file lock, if one is held. flock.Unlock is idempotent
// and safe to call when the lock is not held.
func (s *FileClient) Close() error {
	if s.flk != nil {
		return s.flk.Unlock()
	}
	return nil
}
