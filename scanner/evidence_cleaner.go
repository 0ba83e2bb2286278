package scanner

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"boss-challenge-bot/model"
	"boss-challenge-bot/utils"

	"github.com/bwmarrin/discordgo"
)

// CleanOldEvidence removes evidence files under root last modified before
// now minus maxAgeDays, then prunes empty directories. Submission rows keep
// their paths; only the files go.
func CleanOldEvidence(root string, maxAgeDays int, now time.Time) (int, error) {
	if maxAgeDays <= 0 {
		return 0, nil
	}
	cutoffTime := now.Add(-time.Duration(maxAgeDays) * 24 * time.Hour)

	deletedCount := 0
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root {
				dirs = append(dirs, path)
			}
			return nil
		}
		info, err := d.Info()
		if err != nil {
			log.Printf("Could not get file info for %s: %v", path, err)
			return nil
		}
		if info.ModTime().Before(cutoffTime) {
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to delete old evidence file %s: %v", path, err)
				return nil
			}
			deletedCount++
		}
		return nil
	})
	if err != nil {
		return deletedCount, err
	}

	// deepest first so parents become empty
	for i := len(dirs) - 1; i >= 0; i-- {
		if entries, err := os.ReadDir(dirs[i]); err == nil && len(entries) == 0 {
			os.Remove(dirs[i])
		}
	}
	return deletedCount, nil
}

// RunEvidenceCleanup applies the configured retention to the local evidence store.
func RunEvidenceCleanup(s *discordgo.Session, cfg *model.Config) {
	evidenceConfig := cfg.Evidence
	logChannelID := cfg.LogChannelID

	if evidenceConfig.Backend != "local" || evidenceConfig.MaxAgeDays <= 0 {
		return
	}

	log.Printf("Starting cleanup of old evidence files in %s (older than %d days)...", evidenceConfig.Path, evidenceConfig.MaxAgeDays)
	deletedCount, err := CleanOldEvidence(evidenceConfig.Path, evidenceConfig.MaxAgeDays, time.Now())
	if err != nil {
		if os.IsNotExist(err) {
			utils.LogWarn(s, logChannelID, "CleanOldEvidence", "DirNotExist", fmt.Sprintf("Evidence directory %s does not exist. Skipping.", evidenceConfig.Path))
		} else {
			utils.LogError(s, logChannelID, "CleanOldEvidence", "Walk", fmt.Sprintf("Error walking evidence directory %s: %v", evidenceConfig.Path, err))
		}
		return
	}

	if deletedCount > 0 {
		utils.LogInfo(s, logChannelID, "CleanOldEvidence", "Success", fmt.Sprintf("Deleted %d old evidence files from %s.", deletedCount, evidenceConfig.Path))
	}
	log.Println("Finished cleanup of old evidence files.")
}
