package web

const appCSS = `
:root { --ink: #1f1d2b; --muted: #6b6880; --accent: #7c5cff; --danger: #d64545; --ok: #2f9e6b; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; color: var(--ink); background: #f7f6fb; }
.journal { max-width: 760px; margin: 0 auto; padding: 24px 16px; }
h1 { margin-top: 0; }
.sr-only { position: absolute; width: 1px; height: 1px; overflow: hidden; clip: rect(0 0 0 0); }
.notice { padding: 8px 12px; border-radius: 6px; margin-bottom: 12px; }
.notice-success { background: #e3f5ec; color: var(--ok); }
.notice-info { background: #e7efff; }
.notice-warning { background: #fff4dc; }
.notice-error { background: #fde7e7; color: var(--danger); }
.dream-form, .controls { display: flex; flex-wrap: wrap; gap: 8px; margin-bottom: 16px; }
.dream-form textarea { width: 100%; min-height: 96px; }
.btn { border: 1px solid #ccc; background: #fff; border-radius: 4px; padding: 4px 10px; cursor: pointer; }
.btn-primary { background: var(--accent); border-color: var(--accent); color: #fff; }
.btn-danger { background: var(--danger); border-color: var(--danger); color: #fff; }
.dream-entry { background: #fff; border-radius: 8px; padding: 12px 16px; margin-bottom: 12px; }
.dream-entry.pending-delete { outline: 2px solid var(--danger); }
.dream-meta { color: var(--muted); font-size: 0.85em; }
.lucid-badge { background: var(--accent); color: #fff; border-radius: 10px; padding: 0 8px; font-size: 0.8em; }
.tag, .dream-sign { display: inline-block; background: #eeeaff; border-radius: 10px; padding: 0 8px; margin: 2px; font-size: 0.85em; }
.inline-form { display: inline; }
.pagination { margin-top: 16px; text-align: center; }
.page-current { font-weight: bold; text-decoration: underline; padding: 0 6px; }
.page-ellipsis { padding: 0 6px; color: var(--muted); }
.empty-state { color: var(--muted); text-align: center; }
`
