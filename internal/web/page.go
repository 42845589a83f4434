package web

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
)

// Handler renders the single demo page. All behavior lives in the JSON API;
// the page is plain HTML plus a small script wired to it.
type Handler struct {
	prefix string
	logger *slog.Logger
}

// New creates the page handler. prefix is the optional path prefix the UI is
// routed under (PROXY_PREFIX); it only affects the URLs baked into the page.
func New(prefix string, logger *slog.Logger) *Handler {
	prefix = strings.TrimRight(prefix, "/")
	return &Handler{prefix: prefix, logger: logger}
}

// ServeHTTP renders the page.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Execute(w, map[string]string{"Prefix": h.prefix}); err != nil {
		h.logger.Error("render page", "error", err)
	}
}

var page = template.Must(template.New("index").Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>PDF-to-Podcast</title>
  <style>
    body { font-family: sans-serif; margin: 1.5rem; display: flex; gap: 2rem; }
    .col { flex: 1; min-width: 0; }
    .tabs button { margin-right: .25rem; }
    .tab { display: none; padding-top: 1rem; }
    .tab.active { display: block; }
    #editor-title { text-align: center; width: 100%; }
    #config-editor { width: 100%; height: 20rem; font-family: monospace; }
    #output { width: 100%; height: 24rem; font-family: monospace; }
    .toolbar { display: flex; align-items: center; gap: .5rem; }
  </style>
</head>
<body>
<div class="col">
  <h1>PDF-to-Podcast</h1>
  <div class="tabs">
    <button data-tab="arch">Architecture</button>
    <button data-tab="config">Agent Configurations</button>
    <button data-tab="flow">Full End to End Flow</button>
  </div>

  <div id="arch" class="tab active">
    <h3>Key Features</h3>
    <p><b>PDF to Markdown Service</b> — extracts content from PDFs and converts it
    into markdown for further processing.</p>
    <p><b>Monologue or Dialogue Creation Service</b> — AI processes markdown content,
    enriching or structuring it to create natural and engaging audio content.</p>
    <p><b>Text-to-Speech Service</b> — converts the processed content into
    high-quality speech.</p>
  </div>

  <div id="config" class="tab">
    <p>Use this editor to configure your long-reasoning agent. The default
    configuration is for a locally running model endpoint.</p>
    <div class="toolbar">
      <span id="editor-title">models.json <span id="dirty-dot">&#128994;</span></span>
      <button id="save-btn" title="Save">&#128190;</button>
      <button id="undo-btn" title="Undo">&#8630;</button>
      <button id="reset-btn" title="Reset">&#8634;</button>
    </div>
    <textarea id="config-editor" spellcheck="false"></textarea>
  </div>

  <div id="flow" class="tab">
    <h4>Upload at least one PDF file as a target or as context.</h4>
    <p><input type="file" id="target-files" accept=".pdf" multiple> target PDFs</p>
    <p><input type="file" id="context-files" accept=".pdf" multiple> context PDFs</p>
    <details>
      <summary>Optional: Email Details</summary>
      <p>Enter optional email details here to receive your generated podcast in your inbox.</p>
      <p><input id="sender-email" placeholder="Sender email (needs SENDER_EMAIL_PASSWORD set)"></p>
      <p><input id="recipient-email" placeholder="Recipient email"></p>
    </details>
    <p><label><input type="checkbox" id="monologue-only"> Monologue Only</label></p>
    <button id="generate-btn">Generate Podcast</button>
    <p id="artifact-link"></p>
  </div>
</div>

<div class="col">
  <h3>Outputs</h3>
  <textarea id="output" readonly placeholder="Outputs will show here when executing"></textarea>
</div>

<script>
const api = "{{.Prefix}}/api";

document.querySelectorAll(".tabs button").forEach(btn => {
  btn.onclick = () => {
    document.querySelectorAll(".tab").forEach(el => el.classList.remove("active"));
    document.getElementById(btn.dataset.tab).classList.add("active");
  };
});

const editor = document.getElementById("config-editor");
const dirtyDot = document.getElementById("dirty-dot");
const setDirty = dirty => { dirtyDot.innerHTML = dirty ? "&#128992;" : "&#128994;"; };

async function loadConfig() {
  const res = await fetch(api + "/config/");
  const body = await res.json();
  editor.value = body.text;
  setDirty(false);
}
loadConfig();

editor.addEventListener("input", () => {
  setDirty(true);
  fetch(api + "/config/touch", {method: "POST"});
});

document.getElementById("save-btn").onclick = async () => {
  const res = await fetch(api + "/config/", {
    method: "PUT",
    headers: {"Content-Type": "application/json"},
    body: JSON.stringify({text: editor.value}),
  });
  if (!res.ok) {
    const body = await res.json();
    alert("Error validating JSON syntax:\n" + body.error);
    return;
  }
  setDirty(false);
};

document.getElementById("undo-btn").onclick = async () => {
  const res = await fetch(api + "/config/undo", {method: "POST"});
  const body = await res.json();
  editor.value = body.text;
  setDirty(false);
};

document.getElementById("reset-btn").onclick = async () => {
  const res = await fetch(api + "/config/reset", {method: "POST"});
  const body = await res.json();
  editor.value = body.text;
  setDirty(false);
};

const output = document.getElementById("output");
const events = new EventSource(api + "/logs/stream");
events.addEventListener("logs", ev => {
  output.value = JSON.parse(ev.data).contents;
  output.scrollTop = output.scrollHeight;
});

async function uploadFiles() {
  const form = new FormData();
  for (const f of document.getElementById("target-files").files) form.append("target", f);
  for (const f of document.getElementById("context-files").files) form.append("context", f);
  const res = await fetch(api + "/podcast/uploads", {method: "POST", body: form});
  const body = await res.json();
  if (!res.ok) throw new Error(body.error);
  return body;
}

document.getElementById("generate-btn").onclick = async () => {
  const btn = document.getElementById("generate-btn");
  btn.disabled = true;
  try {
    const uploaded = await uploadFiles();
    const settings = document.getElementById("monologue-only").checked ? ["Monologue Only"] : [];
    const res = await fetch(api + "/podcast/generate", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({
        target: uploaded.target || [],
        context: uploaded.context || [],
        sender: document.getElementById("sender-email").value,
        recipient: document.getElementById("recipient-email").value,
        settings: settings,
      }),
    });
    const body = await res.json();
    if (!res.ok) throw new Error(body.error);
    const link = api + "/podcast/artifacts/" + encodeURIComponent(body.artifactName);
    document.getElementById("artifact-link").innerHTML =
      '<a href="' + link + '" download>' + body.artifactName + "</a>" +
      (body.emailed ? " (also sent by email)" : "");
  } catch (err) {
    alert(err.message);
  } finally {
    btn.disabled = false;
  }
};
</script>
</body>
</html>
`))
