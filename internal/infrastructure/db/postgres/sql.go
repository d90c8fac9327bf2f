package postgres

const ensureVideoSQL = `
INSERT INTO videos (id, file_id, title, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (file_id) DO NOTHING
`

const getVideoIDSQL = `
SELECT id FROM videos WHERE file_id = $1
`

const getReactionSQL = `
SELECT id, video_id, ip_address, reaction_type, created_at
FROM video_reactions
WHERE video_id = $1 AND ip_address = $2
`

const deleteReactionSQL = `
DELETE FROM video_reactions WHERE video_id = $1 AND ip_address = $2
`

// The insert replaces a surviving row so (video_id, ip_address) stays unique.
const insertReactionSQL = `
INSERT INTO video_reactions (id, video_id, ip_address, reaction_type, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (video_id, ip_address)
DO UPDATE SET reaction_type = EXCLUDED.reaction_type, created_at = EXCLUDED.created_at
`

const countByKindSQL = `
SELECT reaction_type, COUNT(*) AS n
FROM video_reactions
WHERE video_id = $1
GROUP BY reaction_type
ORDER BY n DESC, reaction_type ASC
`

const countAllSQL = `
SELECT video_id, reaction_type, COUNT(*) AS n
FROM video_reactions
GROUP BY video_id, reaction_type
ORDER BY video_id ASC, n DESC, reaction_type ASC
`

const insertEventSQL = `
INSERT INTO video_analytics (
  id, video_id, ip_address, event_type, timestamp_seconds, user_agent, referrer, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const incrementViewsSQL = `
UPDATE videos SET views_count = views_count + 1, updated_at = now() WHERE file_id = $1
`

const totalsSQL = `
SELECT
  (SELECT COUNT(*) FROM videos),
  (SELECT COALESCE(SUM(views_count), 0) FROM videos),
  (SELECT COUNT(*) FROM video_reactions)
`

const topVideosSQL = `
SELECT v.file_id, v.title, v.views_count, COUNT(r.id)
FROM videos v
LEFT JOIN video_reactions r ON r.video_id = v.file_id
GROUP BY v.id
ORDER BY v.views_count DESC, v.file_id ASC
LIMIT $1
`

const recentActivitySQL = `
SELECT video_id, event_type, created_at
FROM video_analytics
ORDER BY created_at DESC
LIMIT $1
`
