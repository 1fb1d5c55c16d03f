package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"docstudio/internal/dbconn"
	"docstudio/internal/workspace"
)

// ListConnectionProfiles returns the publishing profiles of the open workspace.
func (a *App) ListConnectionProfiles() ([]workspace.ConnectionProfile, error) {
	repo, err := a.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListConnectionProfiles()
}

// SaveConnectionProfile stores a profile; a non-empty password goes to the OS keyring.
func (a *App) SaveConnectionProfile(p workspace.ConnectionProfile, password string) (string, error) {
	if _, err := dbconn.NewPublisher(p.Driver); err != nil {
		return "", err
	}
	if p.TableName != "" {
		if err := dbconn.ValidateTable(p.TableName); err != nil {
			return "", err
		}
	}
	repo, err := a.repo()
	if err != nil {
		return "", err
	}
	id, err := repo.SaveConnectionProfile(p)
	if err != nil {
		return "", err
	}
	if password != "" {
		if err := dbconn.SavePassword(id, password); err != nil {
			return id, fmt.Errorf("store password: %w", err)
		}
	}
	return id, nil
}

// DeleteConnectionProfile removes a profile and its stored password.
func (a *App) DeleteConnectionProfile(id string) error {
	repo, err := a.repo()
	if err != nil {
		return err
	}
	if err := repo.DeleteConnectionProfile(id); err != nil {
		return err
	}
	return dbconn.DeletePassword(id)
}

// PublishDocument writes the open document to the database of a profile and returns the
// published version.
func (a *App) PublishDocument(profileID string) (int, error) {
	a.mu.Lock()
	snapshot, err := a.doc.Serialize()
	doc := dbconn.PublishedDocument{ID: a.docID, Title: a.title, PageCount: a.doc.PageCount(), Snapshot: snapshot}
	a.mu.Unlock()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Publish.Timeout)
	defer cancel()
	pub, err := a.connect(ctx, profileID)
	if err != nil {
		return 0, err
	}
	defer pub.Close()

	version, err := pub.Publish(ctx, doc)
	if err != nil {
		return 0, err
	}
	a.log.Info("document published", zap.String("document", doc.ID), zap.String("profile", profileID), zap.Int("version", version))
	a.emit(EventStatus, fmt.Sprintf("Published version %d", version))
	return version, nil
}

// ListPublished lists the documents published to a profile's database.
func (a *App) ListPublished(profileID string) ([]dbconn.PublishedDocument, error) {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Publish.Timeout)
	defer cancel()
	pub, err := a.connect(ctx, profileID)
	if err != nil {
		return nil, err
	}
	defer pub.Close()
	return pub.List(ctx)
}

// OpenPublished fetches a published document and opens it.
func (a *App) OpenPublished(profileID, docID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Publish.Timeout)
	defer cancel()
	pub, err := a.connect(ctx, profileID)
	if err != nil {
		return err
	}
	defer pub.Close()

	doc, err := pub.Fetch(ctx, docID)
	if err != nil {
		return err
	}
	return a.OpenDocument(doc.ID, doc.Title, doc.Snapshot)
}

// connect opens a publisher for a workspace profile and makes sure its table exists.
func (a *App) connect(ctx context.Context, profileID string) (dbconn.Publisher, error) {
	repo, err := a.repo()
	if err != nil {
		return nil, err
	}
	profiles, err := repo.ListConnectionProfiles()
	if err != nil {
		return nil, err
	}
	var profile *workspace.ConnectionProfile
	for i := range profiles {
		if profiles[i].ID == profileID {
			profile = &profiles[i]
			break
		}
	}
	if profile == nil {
		return nil, fmt.Errorf("connection profile %s not found", profileID)
	}

	password, err := dbconn.LoadPassword(profile.ID)
	if err != nil {
		return nil, fmt.Errorf("load password: %w", err)
	}
	pub, err := dbconn.NewPublisher(profile.Driver)
	if err != nil {
		return nil, err
	}
	if err := pub.Connect(ctx, a.connectionConfig(*profile, password)); err != nil {
		return nil, err
	}
	if err := pub.EnsureTable(ctx); err != nil {
		pub.Close()
		return nil, err
	}
	return pub, nil
}

func (a *App) connectionConfig(p workspace.ConnectionProfile, password string) dbconn.ConnectionConfig {
	cfg := dbconn.ConnectionConfig{
		Driver:   p.Driver,
		Host:     p.Host,
		Database: p.DatabaseName,
		Username: p.Username,
		Password: password,
		SSLMode:  p.SSLMode,
		Table:    p.TableName,
	}
	if p.Port != nil {
		cfg.Port = *p.Port
	}
	if cfg.Table == "" {
		cfg.Table = a.cfg.Publish.Table
	}
	return cfg
}
