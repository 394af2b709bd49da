package web

import (
	"html/template"
	"net/http"
)

var indexPage = template.Must(template.New("index").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8" />
<meta name="viewport" content="width=device-width,initial-scale=1" />
<title>Atim</title>
<style>
body{font-family:system-ui,Arial,sans-serif;margin:2rem;max-width:720px}
.card{border:1px solid #ddd;border-radius:12px;padding:24px}
label{display:block;margin-top:12px;font-size:14px;color:#444}
select,textarea{width:100%;margin-top:4px;padding:8px;border:1px solid #bbb;border-radius:8px}
button{margin-top:16px;padding:10px 16px;border-radius:8px;border:1px solid #888;background:#f5f5f5;cursor:pointer}
#reply{margin-top:16px;white-space:pre-wrap}
.err{color:#b00020}
</style>
</head>
<body>
<div class="card">
  <h2>Atim</h2>
  <label>Your language
    <select id="source">
      {{range .Languages}}<option value="{{.Code}}">{{.Name}}</option>{{end}}
    </select>
  </label>
  <label>Reply language
    <select id="target">
      {{range .Languages}}<option value="{{.Code}}">{{.Name}}</option>{{end}}
    </select>
  </label>
  <label>Message
    <textarea id="message" rows="3"></textarea>
  </label>
  <button id="send">Send</button>
  <div id="reply"></div>
</div>
<script>
document.getElementById('send').addEventListener('click', async () => {
  const out = document.getElementById('reply');
  out.textContent = '...';
  out.className = '';
  const resp = await fetch('/chat_with_ai', {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify({
      message: document.getElementById('message').value,
      source_language: document.getElementById('source').value,
      target_language: document.getElementById('target').value,
    }),
  });
  const data = await resp.json();
  if (resp.ok) {
    out.textContent = data.reply;
  } else {
    out.textContent = data.error;
    out.className = 'err';
  }
});
</script>
</body>
</html>`))

func (s *Server) homeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ensureSession(w, r)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = indexPage.Execute(w, struct {
			Languages any
		}{Languages: s.langs.List()})
	}
}
