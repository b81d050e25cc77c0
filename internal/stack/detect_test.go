package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"spry.sh/spry/internal/trailer"
	"spry.sh/spry/internal/vcs"
)

func commitWithTrailers(hash, subject string, trailers trailer.Trailers) vcs.Commit {
	body := subject
	if len(trailers) > 0 {
		body = trailer.AddTrailers(subject, trailers)
	}
	return vcs.Commit{Hash: vcs.Hash(hash), Subject: subject, Body: body}
}

func TestDetectPRUnitsPartitionsExactly(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "first", nil),
		commitWithTrailers("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "second", trailer.Trailers{"Spry-Group": "g1"}),
		commitWithTrailers("cccccccccccccccccccccccccccccccccccccccc", "third", trailer.Trailers{"Spry-Group": "g1"}),
		commitWithTrailers("dddddddddddddddddddddddddddddddddddddddd", "fourth", nil),
	}

	units := DetectPRUnits(commits, GroupTitles{})

	var allHashes []vcs.Hash
	for _, u := range units {
		allHashes = append(allHashes, u.Commits...)
	}
	require.Len(t, units, 3)
	require.Equal(t, Single, units[0].Kind)
	require.Equal(t, Group, units[1].Kind)
	require.Equal(t, Single, units[2].Kind)
	require.Equal(t, []vcs.Hash{commits[0].Hash, commits[1].Hash, commits[2].Hash, commits[3].Hash}, allHashes)
}

func TestDetectPRUnitsGroupTitleLookup(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "first", trailer.Trailers{"Spry-Group": "g1"}),
	}
	units := DetectPRUnits(commits, GroupTitles{"g1": "My Feature"})
	require.Equal(t, "My Feature", units[0].Title)
}

func TestDetectPRUnitsSingleIDFallsBackToHashPrefix(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("abcdef0123456789abcdef0123456789abcdef01", "first", nil),
	}
	units := DetectPRUnits(commits, GroupTitles{})
	require.Equal(t, "abcdef01", units[0].ID)
}

func TestDetectPRUnitsSingleIDUsesCommitIDTrailer(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("abcdef0123456789abcdef0123456789abcdef01", "first", trailer.Trailers{"Spry-Commit-Id": "deadbeef"}),
	}
	units := DetectPRUnits(commits, GroupTitles{})
	require.Equal(t, "deadbeef", units[0].ID)
}

func TestParseStackDetectsSplitGroup(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "a", trailer.Trailers{"Spry-Group": "g1"}),
		commitWithTrailers("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "b", nil),
		commitWithTrailers("cccccccccccccccccccccccccccccccccccccccc", "c", trailer.Trailers{"Spry-Group": "g1"}),
	}

	_, err := ParseStack(commits, GroupTitles{})
	require.Error(t, err)

	var splitErr *SplitGroupError
	require.ErrorAs(t, err, &splitErr)
	require.Equal(t, "g1", splitErr.Group)
	require.Equal(t, []vcs.Hash{commits[1].Hash}, splitErr.InterruptingCommits)
}

func TestParseStackContiguousGroupSucceeds(t *testing.T) {
	commits := []vcs.Commit{
		commitWithTrailers("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "a", trailer.Trailers{"Spry-Group": "g1"}),
		commitWithTrailers("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "b", trailer.Trailers{"Spry-Group": "g1"}),
	}
	units, err := ParseStack(commits, GroupTitles{})
	require.NoError(t, err)
	require.Len(t, units, 1)
	require.Equal(t, Group, units[0].Kind)
}

func TestParseStackEmptySucceeds(t *testing.T) {
	units, err := ParseStack(nil, GroupTitles{})
	require.NoError(t, err)
	require.Empty(t, units)
}
