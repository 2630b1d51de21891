package sink

import (
	"fmt"
	"time"
)

const chartCSS = `
    .arc { stroke: #ffffff; stroke-width: 1; cursor: pointer; transition: opacity 0.2s ease; }
    .arc.faded { opacity: 0.35; }
    .arc.dimmed { opacity: 0.25; }
    .root { fill: transparent; cursor: pointer; }
    .label { pointer-events: none; text-anchor: middle; dominant-baseline: central; }
    .legend text { dominant-baseline: central; }
    .tooltip { pointer-events: none; }
    .tooltip rect { fill: #ffffff; fill-opacity: 0.92; stroke: #999999; rx: 3; }
    .tooltip #title { font-weight: bold; }`

// animationCSS returns the CSS for the grow-in transition of arcs, or "" when
// d is zero.
func animationCSS(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	return fmt.Sprintf(`
    @keyframes sb-grow { from { transform: scale(0); } to { transform: scale(1); } }
    .arcs { animation: sb-grow %dms ease-out; transform-box: fill-box; transform-origin: center; }`, d.Milliseconds())
}

const chartJS = `
    (function () {
      const svg = document.currentScript ? document.currentScript.closest('svg') : document.querySelector('svg.sunburst');
      if (!svg) return;
      const tooltip = svg.querySelector('#tooltip');
      const title = svg.querySelector('#title');
      const count = svg.querySelector('#count');
      const box = tooltip.querySelector('rect');
      const arcs = Array.from(svg.querySelectorAll('.arc'));
      const filtering = svg.dataset.filter === 'on';
      const concepts = JSON.parse(svg.dataset.concepts || '[]');
      const interactionId = svg.dataset.interaction;
      let selected = svg.dataset.selected || '';

      function lineage(id) {
        const parts = id.slice(1).split('-');
        const out = [];
        for (let i = 1; i <= parts.length; i++) out.push('n' + parts.slice(0, i).join('-'));
        return out;
      }
      function related(id, sel) {
        return id === sel || id.startsWith(sel + '-') || sel.startsWith(id + '-');
      }
      function applySelection() {
        arcs.forEach(a => a.classList.toggle('dimmed', selected !== '' && !related(a.dataset.node, selected)));
      }
      function move(e) {
        const pt = svg.createSVGPoint();
        pt.x = e.clientX; pt.y = e.clientY;
        const p = pt.matrixTransform(svg.getScreenCTM().inverse());
        const vb = svg.viewBox.baseVal;
        const w = box.width.baseVal.value;
        const x = Math.min(p.x + 12, vb.width - w - 4);
        tooltip.setAttribute('transform', 'translate(' + x.toFixed(1) + ',' + (p.y + 12).toFixed(1) + ')');
      }
      function show(a, e) {
        title.textContent = a.dataset.title;
        count.textContent = a.dataset.count;
        const w = Math.max(title.getComputedTextLength(), count.getComputedTextLength()) + 16;
        box.setAttribute('width', w.toFixed(1));
        const keep = lineage(a.dataset.node);
        arcs.forEach(o => o.classList.toggle('faded', !keep.includes(o.dataset.node)));
        move(e);
        tooltip.setAttribute('visibility', 'visible');
      }
      function hide() {
        tooltip.setAttribute('visibility', 'hidden');
        arcs.forEach(o => o.classList.remove('faded'));
      }
      function send(evt) {
        const endpoint = svg.dataset.endpoint;
        if (endpoint) {
          fetch(endpoint, {method: 'POST', headers: {'Content-Type': 'application/json'}, body: JSON.stringify(evt)});
        } else if (window.parent && window.parent !== window) {
          window.parent.postMessage({type: 'sunburst:interaction', event: evt}, '*');
        }
      }
      function reset() {
        if (!filtering || selected === '') return;
        selected = '';
        applySelection();
        send({interactionId: interactionId, type: 'RESET'});
      }
      arcs.forEach(a => {
        a.addEventListener('mouseenter', e => show(a, e));
        a.addEventListener('mousemove', move);
        a.addEventListener('mouseleave', hide);
        a.addEventListener('click', () => {
          if (!filtering) return;
          if (selected === a.dataset.node) { reset(); return; }
          selected = a.dataset.node;
          applySelection();
          const values = JSON.parse(a.dataset.path);
          send({interactionId: interactionId, type: 'FILTER',
                data: {concepts: concepts.slice(0, values.length), values: [values]}});
        });
      });
      const center = svg.querySelector('.root');
      if (center) center.addEventListener('click', reset);
    })();`
